package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiResponse is the JSON envelope of the /api routes.
type apiResponse struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Data      any            `json:"data,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:      0,
		Message:   "ok",
		Data:      data,
		Meta:      meta,
		RequestID: c.GetString(requestIDKey),
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:      status,
		Message:   message,
		Meta:      meta,
		RequestID: c.GetString(requestIDKey),
	})
}
