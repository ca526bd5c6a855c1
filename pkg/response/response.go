// Package response renders the JSON envelope every endpoint replies with.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

func envelope[T any](ctx *gin.Context, status, fallback int, message string) APIResponse[T] {
	if status == 0 {
		status = fallback
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Message:   message,
	}
}

// Success writes a success envelope (200 when status is zero) and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	resp := envelope[T](ctx, status, http.StatusOK, message)
	resp.Success = true
	resp.Data = data
	resp.Meta = meta
	ctx.JSON(resp.Status, resp)
	return resp
}

// Error writes a failure envelope (400 when status is zero) and returns it.
// err carries machine-readable details such as {"code": "not_found"}.
func Error[T any](ctx *gin.Context, status int, message string, err any) APIResponse[T] {
	resp := envelope[T](ctx, status, http.StatusBadRequest, message)
	resp.Error = err
	ctx.JSON(resp.Status, resp)
	return resp
}
