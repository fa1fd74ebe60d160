package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrportal/hradmin/internal/http/middlewares"
	"github.com/hrportal/hradmin/internal/observability"
)

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// requestIDFrom prefers the id set by the RequestID middleware, then the
// request context, then the raw header.
func requestIDFrom(ctx *gin.Context) string {
	if id := ctx.GetString(middlewares.CtxRequestID); id != "" {
		return id
	}
	if id, ok := observability.RequestIDFrom(ctx.Request.Context()); ok {
		return id
	}
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details any) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details any) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

// RespondInternalErr reports a failing collaborator and carries its message
// in details.
func RespondInternalErr(ctx *gin.Context, message string, err error) {
	_ = ctx.Error(err)
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, gin.H{"reason": err.Error()})
}
