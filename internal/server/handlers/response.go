package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

var errInvalidBody = models.NewError(models.KindBadRequest, http.StatusBadRequest, "invalid request body", nil)

// statusFor maps an error kind onto the HTTP status returned to the browser.
func statusFor(kind models.Kind) int {
	switch kind {
	case models.KindValidation:
		return http.StatusUnprocessableEntity
	case models.KindDuplicate, models.KindBusy:
		return http.StatusConflict
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindUnauthorized:
		return http.StatusUnauthorized
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindBadRequest:
		return http.StatusBadRequest
	case models.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	e := models.AsError(err)
	status := statusFor(e.Kind)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.String("kind", string(e.Kind)), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, models.Failed(e))
}

func respondOK(c *gin.Context, status int, data any, message string) {
	c.JSON(status, models.OK(data, message))
}

func bindFields(c *gin.Context) (models.Fields, bool) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.Failed(errInvalidBody))
		return nil, false
	}
	return models.FieldsFromJSON(payload), true
}
