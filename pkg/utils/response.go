package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *AppError   `json:"error,omitempty"`
}

func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func SendError(c *gin.Context, statusCode int, err *AppError) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   err,
	})
}

func SendValidationError(c *gin.Context, message string, details string) {
	SendError(c, http.StatusBadRequest, NewAppError(ErrCodeValidation, message, details))
}

// SendFieldErrors reports per-field validation problems in a single response.
func SendFieldErrors(c *gin.Context, message string, fields map[string]string) {
	err := NewAppError(ErrCodeValidation, message)
	err.Fields = fields
	SendError(c, http.StatusBadRequest, err)
}

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, NewAppError(ErrCodeBadRequest, message))
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, NewAppError(ErrCodeNotFound, message))
}

func SendPayloadTooLarge(c *gin.Context, message string) {
	SendError(c, http.StatusRequestEntityTooLarge, NewAppError(ErrCodePayloadTooLarge, message))
}

func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, NewAppError(ErrCodeInternal, message))
}

func SendServiceUnavailable(c *gin.Context, message string) {
	SendError(c, http.StatusServiceUnavailable, NewAppError(ErrCodeServiceUnavailable, message))
}
