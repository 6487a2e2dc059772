package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/archtools/modelsync/internal/api/shared/errors"
	"github.com/archtools/modelsync/internal/logger"
)

// respondError maps a structured API error to its HTTP status. Unclassified
// errors are logged and masked as internal errors.
func respondError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		logger.Error(err, zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, apierrors.NewInternalError("Internal server error"))
		return
	}

	switch apiErr.Code {
	case apierrors.ErrCodeBadRequest:
		c.JSON(http.StatusBadRequest, apiErr)
	case apierrors.ErrCodeNotFound:
		c.JSON(http.StatusNotFound, apiErr)
	case apierrors.ErrCodeValidationFailed:
		c.JSON(http.StatusUnprocessableEntity, apiErr)
	case apierrors.ErrCodeUnauthorized:
		c.JSON(http.StatusUnauthorized, apiErr)
	case apierrors.ErrCodeForbidden:
		c.JSON(http.StatusForbidden, apiErr)
	default:
		logger.Error(apiErr, zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, apiErr)
	}
}

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}
