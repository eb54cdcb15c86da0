package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/vehicle_registry_app/internal/apperrors"
	"github.com/SscSPs/vehicle_registry_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError writes err with the status apperrors.StatusCode assigns to it.
// Internal failures are logged and reported with internalMsg only.
func respondError(c *gin.Context, err error, internalMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)

	switch {
	case status == http.StatusServiceUnavailable:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: "Exchange rate service unavailable, try again later"})
	case status >= http.StatusInternalServerError:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: internalMsg})
	default:
		logger.Warn(internalMsg, slog.Int("status", status), slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: clientMessage(err)})
	}
}

func clientMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	for _, known := range []error{
		apperrors.ErrNotFound,
		apperrors.ErrDuplicate,
		apperrors.ErrUnauthorized,
		apperrors.ErrUserInactive,
		apperrors.ErrForbidden,
		apperrors.ErrValidation,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}
