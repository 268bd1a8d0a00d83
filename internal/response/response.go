// Package response writes the JSON envelope shared by every endpoint:
// a success flag, a short human-readable message, and optional data.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the standard API response body.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload Envelope) {
	c.JSON(status, payload)
}

// OK writes a 200 response.
func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 response.
func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// List writes a 200 response carrying an item count next to the data.
func List(c *gin.Context, count int, data interface{}) {
	JSON(c, http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// Error writes a failure envelope without internal details.
func Error(c *gin.Context, status int, message string) {
	JSON(c, status, Envelope{Success: false, Message: message})
}

// Abort writes a failure envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
