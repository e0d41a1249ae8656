package middleware

import (
	"errors"
	"net/http"

	"midway/internal/core/domain"
	apperrors "midway/pkg/errors"
	"midway/pkg/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandlerMiddleware renders the last error a handler pushed with c.Error.
// Server-side failures are logged with their cause; the response carries
// only the code and a generic message.
func ErrorHandlerMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := ToAppError(err)

		fields := []interface{}{
			"code", appErr.Code,
			"status", appErr.HTTPStatus,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(requestIDKey),
		}

		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Errorw("request failed", append(fields, "error", err.Error())...)
		} else {
			logger.Debugw("request rejected", append(fields, "message", appErr.Message)...)
		}
		c.JSON(appErr.HTTPStatus, appErr.Body())
	}
}

// ToAppError maps domain and validation errors onto HTTP-facing AppErrors.
func ToAppError(err error) *apperrors.AppError {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		appErr := apperrors.NewValidationError("validation failed")
		for field, reason := range verr.Fields {
			appErr.WithContext(field, reason)
		}
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NewNotFoundError("resource")
	case errors.Is(err, domain.ErrAlreadyExists):
		return apperrors.NewConflictError("resource already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperrors.NewInvalidCredentialsError()
	case errors.Is(err, domain.ErrUnauthenticated):
		return apperrors.NewUnauthenticatedError("authentication required")
	case errors.Is(err, domain.ErrForbidden):
		return apperrors.NewForbiddenError("insufficient permissions")
	case errors.Is(err, domain.ErrAuthProviderUnavailable), errors.Is(err, domain.ErrUpstreamUnavailable):
		return apperrors.NewUpstreamUnavailableError(err)
	default:
		return apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError)
	}
}

// RecoveryMiddleware recovers from panics and returns proper error responses
func RecoveryMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Errorw("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.NewInternalError("internal server error").Body())
			}
		}()

		c.Next()
	}
}
