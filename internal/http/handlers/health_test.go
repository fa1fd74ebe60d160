package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hrportal/hradmin/internal/http/handlers"
)

func TestReadyz(t *testing.T) {
	tests := []struct {
		name     string
		ping     func(ctx context.Context) error
		wantCode int
	}{
		{name: "no_dependency", wantCode: http.StatusOK},
		{name: "db_up", ping: func(context.Context) error { return nil }, wantCode: http.StatusOK},
		{name: "db_down", ping: func(context.Context) error { return errors.New("refused") }, wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.ping)
			r := gin.New()
			r.GET("/healthz", h.Healthz)
			r.GET("/readyz", h.Readyz)

			if w := doRequest(r, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
				t.Fatalf("healthz status %d", w.Code)
			}
			if w := doRequest(r, http.MethodGet, "/readyz", ""); w.Code != tt.wantCode {
				t.Fatalf("readyz status %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}
