package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/si-mbkm/mbkm-api/pkg/errors"
)

// Envelope is the success body shared by every endpoint.
type Envelope struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// ErrorBody is written for every failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code"`
}

// JSON sends a success response with an optional message.
func JSON(c *gin.Context, status int, data interface{}, message ...string) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data}
	if len(message) > 0 {
		envelope.Message = message[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}, message ...string) {
	JSON(c, http.StatusCreated, data, message...)
}

// Error converts err to the common error body. The wrapped cause is only exposed below 500.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := ErrorBody{Message: appErr.Message, Code: appErr.Code}
	if appErr.Status < http.StatusInternalServerError {
		body.Error = appErr.Detail()
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.AbortWithStatusJSON(appErr.Status, body)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
