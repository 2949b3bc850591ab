package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"comanda/internal/repository/cache"
	"comanda/internal/service"
)

type errorResponse struct {
	Message string `json:"message"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	logrus.Error(message)
	c.AbortWithStatusJSON(statusCode, errorResponse{Message: message})
}

// respondError maps service errors onto HTTP statuses in one place so every
// handler reports business-rule conflicts the same way.
func respondError(c *gin.Context, err error) {
	var eh cache.ErrorHandler
	switch {
	case errors.Is(err, service.ErrNotFound):
		newErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidation):
		newErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoOpenShift),
		errors.Is(err, service.ErrShiftAlreadyOpen),
		errors.Is(err, service.ErrShiftAlreadyClosed),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrAlreadySettled),
		errors.Is(err, service.ErrConflict):
		newErrorResponse(c, http.StatusConflict, err.Error())
	case errors.As(err, &eh):
		newErrorResponse(c, eh.StatusCode, err.Error())
	default:
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
