package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the JSON envelope every endpoint answers with.
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

func envelope[T any](ctx *gin.Context, status int, ok bool, message string, data T) APIResponse[T] {
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   ok,
		Message:   message,
		Data:      data,
	}
}

// Success writes a success envelope (200 when status is 0).
func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := envelope(ctx, status, true, message, data)
	resp.Meta = meta
	ctx.JSON(status, resp)
	return resp
}

// Error aborts the chain with a failure envelope (400 when status is 0).
// err carries per-field details.
func Error[T any](ctx *gin.Context, status int, message string, err any) APIResponse[T] {
	var zero T
	return ErrorWithData(ctx, status, message, err, zero)
}

// ErrorWithData is Error plus the submitted form values, so the client can
// re-render the form.
func ErrorWithData[T any](ctx *gin.Context, status int, message string, err any, data T) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := envelope(ctx, status, false, message, data)
	resp.Error = err
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}
