package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/listify/models"
)

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, models.Response{Success: true, Data: data})
}

func respondErrorDetail(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.Response{
		Success: false,
		Error:   &models.ErrorDetail{Code: code, Message: message},
	})
}

// respondError maps an internal error to an HTTP status and writes the
// envelope. Server-side failures are logged with the wrapped cause and
// returned with a generic message.
func respondError(c *gin.Context, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewAppError(models.ErrCodeInternal, "internal server error", err)
	}

	status := statusForCode(appErr.Code)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"path", c.FullPath(),
			"code", appErr.Code,
			"error", appErr.Error(),
		)
		respondErrorDetail(c, status, appErr.Code, "internal server error")
		return
	}

	c.JSON(status, models.Response{Success: false, Error: appErr.ToDetail()})
}

func statusForCode(code string) int {
	switch code {
	case models.ErrCodeInvalidASIN, models.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case models.ErrCodeNotFound:
		return http.StatusNotFound
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case models.ErrCodeRateLimited, models.ErrCodeLLMRateLimited:
		return http.StatusTooManyRequests
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case models.ErrCodeNavigation, models.ErrCodeBrowserCrash:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
