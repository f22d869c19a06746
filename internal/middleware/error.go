package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/logger"
)

// ErrorHandler renders errors attached to the Gin context as JSON. AppErrors
// keep their code and message; binding failures become VALIDATION_ERROR;
// anything else is logged and reported as INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		err := last.Err

		var appErr *apperrors.AppError
		switch {
		case errors.As(err, &appErr):
		case last.IsType(gin.ErrorTypeBind):
			appErr = apperrors.WithMessage(apperrors.ErrValidation, err.Error())
		default:
			appErr = apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if appErr.Internal != nil {
			logger.Get().Errorw("request failed",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"request_id", c.GetString(requestIDKey),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}
