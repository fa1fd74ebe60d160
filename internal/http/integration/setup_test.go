package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hrportal/hradmin/internal/app"
	"github.com/hrportal/hradmin/internal/config"
	apphttp "github.com/hrportal/hradmin/internal/http"
	"github.com/hrportal/hradmin/internal/notifications"
	"github.com/hrportal/hradmin/internal/report"
)

func testConfig() config.Config {
	return config.Config{
		Env:                   "test",
		Storage:               "memory",
		JWTSecret:             "test-secret-key",
		JWTIssuer:             "hradmin",
		JWTAudience:           "hradmin-portal",
		JWTTTLMinutes:         60,
		PasswordHasher:        "sha256",
		AdminUsername:         "admin",
		AdminPassword:         "admin123",
		ReportCacheTTLSeconds: 30,
		WorkerMaxAttempts:     2,
	}
}

type testApp struct {
	router  *gin.Engine
	storage *app.Storage
	reports *report.Service
	cfg     config.Config
	log     *slog.Logger
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	st := app.NewMemoryStorage()

	tokens, authSvc, err := app.NewAuth(ctx, cfg, st.Users, logger)
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	reports := app.NewReports(cfg, st, nil, nil, logger)

	router, err := apphttp.NewRouter(apphttp.Deps{
		Log:        logger,
		Config:     cfg,
		Auth:       authSvc,
		Tokens:     tokens,
		Employees:  st.Employees,
		Attendance: st.Attendance,
		Reports:    reports,
		Jobs:       st.Jobs,
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	return &testApp{router: router, storage: st, reports: reports, cfg: cfg, log: logger}
}

func (a *testApp) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T, username, password string) string {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body=%s", username, w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login response %s: %v", w.Body.String(), err)
	}
	return resp.Token
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []notifications.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg notifications.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []notifications.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notifications.Message(nil), m.sent...)
}
