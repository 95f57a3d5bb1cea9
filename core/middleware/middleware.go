package middleware

import (
	"strings"

	"recruitsync/core/config"
	"recruitsync/core/errors"
	"recruitsync/core/logger"
	"recruitsync/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"
)

type Middleware struct {
	jwtSecret []byte
}

func NewMiddleware() *Middleware {
	cfg, ok := config.GetSafe()
	secret := ""
	if ok {
		secret = cfg.Auth.JWTSecret
	}
	return &Middleware{jwtSecret: []byte(secret)}
}

// AuthMiddleware validates the bearer JWT and stores the subject user id in the context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(401, errors.NewAppError(errors.ErrMissingAuthorizationHeader, "missing Authorization header", nil))
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(401, errors.NewAppError(errors.ErrInvalidTokenFormat, "expected Bearer token", nil))
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "unexpected signing method", nil)
				}
				return m.jwtSecret, nil
			})
			if err != nil || !token.Valid {
				logger.Warn("Middleware:AuthMiddleware:InvalidToken", "error", err)
				return echo.NewHTTPError(401, errors.NewAppError(errors.ErrUnauthorized, "invalid token", err))
			}

			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				return echo.NewHTTPError(401, errors.NewAppError(errors.ErrUnauthorized, "token has no subject", err))
			}

			userID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(401, errors.NewAppError(errors.ErrUnauthorized, "token subject is not a user id", err))
			}

			c.Set(ContextKeyUserID, userID)
			return next(c)
		}
	}
}

// RequestID attaches a short request identifier to every request.
func (m *Middleware) RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderRequestID)
			if id == "" {
				id = utils.GenerateID()
			}
			c.Set(ContextKeyRequestID, id)
			c.Response().Header().Set(HeaderRequestID, id)
			return next(c)
		}
	}
}

// UserIDFromContext extracts the authenticated user id set by AuthMiddleware.
func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextKeyUserID).(uuid.UUID)
	return id, ok
}
