package router

import (
	"recruitsync/core/middleware"
	"recruitsync/modules/importer/controller"

	"github.com/labstack/echo/v4"
)

type ImporterRouter struct {
	Controller *controller.ImporterController
}

func NewImporterRouter(ctrl *controller.ImporterController) *ImporterRouter {
	return &ImporterRouter{Controller: ctrl}
}

func (r *ImporterRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	// Provider push endpoint; authenticated by webhook id resolution, not JWT.
	e.POST("/api/v1/webhooks/eventbrite", r.Controller.Webhook)

	v1 := e.Group("/api/v1")
	priv := v1.Group("/private", mw.AuthMiddleware())
	priv.POST("/imports/run", r.Controller.TriggerImport)
	priv.POST("/events/:id/publish", r.Controller.PublishEvent)
	priv.DELETE("/events/:id/publish", r.Controller.UnpublishEvent)
}
