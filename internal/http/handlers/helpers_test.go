package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hrportal/hradmin/internal/auth"
	"github.com/hrportal/hradmin/internal/http/middlewares"
)

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newJSONRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	return serve(r, newJSONRequest(method, path, body))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body: %v body=%s", err, w.Body.String())
	}
	return env
}

type staticVerifier struct {
	claims *auth.Claims
}

func (v staticVerifier) Validate(string) (*auth.Claims, error) {
	return v.claims, nil
}

// withUser authenticates every request that carries a bearer token as the
// given user.
func withUser(id int64, username string) gin.HandlerFunc {
	claims := &auth.Claims{UserID: id}
	claims.Subject = username
	return middlewares.NewAuthMiddleware(staticVerifier{claims: claims}).RequireAuth()
}
