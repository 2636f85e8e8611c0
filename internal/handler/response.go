package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondWithError maps an application error onto the matching HTTP status.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		switch appErr.Code {
		case apperrors.ErrNotFound:
			status = http.StatusNotFound
		case apperrors.ErrValidation:
			status = http.StatusBadRequest
		case apperrors.ErrUnauthorized:
			status = http.StatusUnauthorized
		case apperrors.ErrConflict:
			status = http.StatusConflict
		case apperrors.ErrUnavailable:
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, NewErrorResponse(message))
}
