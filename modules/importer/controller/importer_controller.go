package controller

import (
	"net/http"

	baseController "recruitsync/core/controller"
	"recruitsync/core/errors"
	"recruitsync/core/logger"
	"recruitsync/core/middleware"
	"recruitsync/jobs"
	"recruitsync/modules/importer/dto"
	importerService "recruitsync/modules/importer/service"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

type ImporterController struct {
	baseController.BaseController
	Orchestrator   *importerService.Orchestrator
	PublishService *importerService.PublishService
	Queue          *asynq.Client
}

func NewImporterController(orchestrator *importerService.Orchestrator, publishSvc *importerService.PublishService, queue *asynq.Client) *ImporterController {
	return &ImporterController{
		BaseController: baseController.NewBaseController(),
		Orchestrator:   orchestrator,
		PublishService: publishSvc,
		Queue:          queue,
	}
}

// Webhook receives provider pushes. Always acknowledges test pings; a
// processing failure still maps through the error taxonomy so the provider
// retries transient failures but not malformed ones.
func (ic *ImporterController) Webhook(c echo.Context) error {
	var payload dto.WebhookPayload
	if err := c.Bind(&payload); err != nil {
		return ic.BadRequest(errors.ErrInvalidRequestData, "unreadable webhook payload")
	}

	if appErr := ic.Orchestrator.HandleWebhook(c.Request().Context(), &payload); appErr != nil {
		return ic.ErrorResponse(c, appErr)
	}

	return c.JSON(http.StatusOK, dto.WebhookAck{Received: true})
}

// TriggerImport enqueues an import run rather than blocking the request on a
// full provider sweep.
func (ic *ImporterController) TriggerImport(c echo.Context) error {
	var req dto.TriggerImportRequest
	if err := c.Bind(&req); err != nil {
		return ic.BadRequest(errors.ErrInvalidRequestData, "unreadable trigger request")
	}

	var task *asynq.Task
	var err error
	switch req.Mode {
	case importerService.ImportModeEvents:
		task, err = jobs.NewImportEventsTask(req.Provider)
	case importerService.ImportModeRSVPs:
		task, err = jobs.NewImportRSVPsTask(req.Provider)
	default:
		return ic.BadRequest(errors.ErrInvalidInput, "mode must be \"events\" or \"rsvps\"")
	}
	if err != nil {
		return ic.InternalServerError(errors.ErrInternalServer, "failed to build import task")
	}

	info, err := ic.Queue.EnqueueContext(c.Request().Context(), task)
	if err != nil {
		logger.Error("ImporterController:TriggerImport:Enqueue:Error", "error", err, "mode", req.Mode)
		return ic.InternalServerError(errors.ErrInternalServer, "failed to enqueue import")
	}

	logger.Info("ImporterController:TriggerImport:Enqueued",
		"mode", req.Mode, "provider", req.Provider, "task_id", info.ID)
	return ic.SuccessResponse(c, map[string]string{"task_id": info.ID}, "import enqueued")
}

// PublishEvent pushes a locally drafted event to its provider.
func (ic *ImporterController) PublishEvent(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return ic.Unauthorized(errors.ErrUnauthorized, "no authenticated user")
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ic.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	event, appErr := ic.PublishService.PublishEvent(c.Request().Context(), userID, eventID)
	if appErr != nil {
		return ic.ErrorResponse(c, appErr)
	}
	return ic.SuccessResponse(c, event, "event published")
}

// UnpublishEvent removes the event provider-side.
func (ic *ImporterController) UnpublishEvent(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return ic.Unauthorized(errors.ErrUnauthorized, "no authenticated user")
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ic.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	if appErr := ic.PublishService.UnpublishEvent(c.Request().Context(), userID, eventID); appErr != nil {
		return ic.ErrorResponse(c, appErr)
	}
	return ic.SuccessResponse(c, nil, "event unpublished")
}
