package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/calendar"
	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/logger"
	"pennyplan/internal/middleware"
	"pennyplan/internal/models"
	"pennyplan/internal/uuid"
)

// ErrorDetail is the body of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// getOwnerID extracts the authenticated owner ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getOwnerID(c *gin.Context) (string, error) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	return ownerID, nil
}

// parsePathID reads a UUID path parameter.
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.Validation(param, "must be a valid id")
	}
	return id, nil
}

// bindError converts a binding failure into a VALIDATION_ERROR.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrValidation, err.Error())
}

// parseOptionalDate parses a YYYY-MM-DD or RFC3339 value. Empty input
// yields nil.
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := calendar.ParseDate(value)
	if err != nil {
		return nil, apperrors.Validation(field, "must be YYYY-MM-DD or RFC3339")
	}
	return &t, nil
}

func parseOptionalInt64(field, value string) (*int64, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, apperrors.Validation(field, "must be an integer")
	}
	return &n, nil
}

func parseOptionalEntryType(value string) (*models.EntryType, error) {
	if value == "" {
		return nil, nil
	}
	t := models.EntryType(value)
	if !t.Valid() {
		return nil, apperrors.Validation("type", "must be INCOME or EXPENSE")
	}
	return &t, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}
