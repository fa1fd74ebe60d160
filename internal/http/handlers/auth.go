package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrportal/hradmin/internal/auth"
	"github.com/hrportal/hradmin/internal/config"
	"github.com/hrportal/hradmin/internal/domain/user"
)

type Authenticator interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, username, password string) (auth.Token, error)
}

type AuthHandler struct {
	svc Authenticator
}

func NewAuthHandler(svc Authenticator) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// POST /api/auth/register
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.svc.Register(cctx, strings.TrimSpace(req.Username), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateUsername):
			RespondConflict(ctx, "username_taken", "Username already exists")
		case errors.Is(err, auth.ErrDuplicateEmail):
			RespondConflict(ctx, "email_taken", "Email already exists")
		default:
			RespondInternalErr(ctx, "Could not register user", err)
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// POST /api/auth/login
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	token, err := h.svc.Login(cctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Invalid username or password")
			return
		}
		RespondInternalErr(ctx, "Could not log in", err)
		return
	}

	ctx.JSON(http.StatusOK, token)
}
