package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hrportal/hradmin/internal/domain/job"
	"github.com/hrportal/hradmin/internal/http/handlers"
)

type fakeJobs struct {
	getFn   func(ctx context.Context, id string) (job.Job, error)
	retryFn func(ctx context.Context, id string) (job.Job, error)
}

func (f *fakeJobs) GetByID(ctx context.Context, id string) (job.Job, error) {
	return f.getFn(ctx, id)
}

func (f *fakeJobs) Retry(ctx context.Context, id string) (job.Job, error) {
	return f.retryFn(ctx, id)
}

func jobsRouter(repo handlers.JobsReader) *gin.Engine {
	h := handlers.NewJobsHandler(repo)
	r := gin.New()
	r.GET("/api/jobs/:id", h.Get)
	r.POST("/api/jobs/:id/retry", h.Retry)
	return r
}

func TestJobs_Get(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name     string
		path     string
		err      error
		wantCode int
	}{
		{name: "found", path: "/api/jobs/" + id, wantCode: http.StatusOK},
		{name: "missing", path: "/api/jobs/" + id, err: job.ErrJobNotFound, wantCode: http.StatusNotFound},
		{name: "bad_id", path: "/api/jobs/not-a-uuid", wantCode: http.StatusBadRequest},
		{name: "store_down", path: "/api/jobs/" + id, err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeJobs{getFn: func(_ context.Context, got string) (job.Job, error) {
				if got != id {
					t.Fatalf("unexpected id %q", got)
				}
				return job.Job{ID: id, Status: job.StatusDone}, tt.err
			}}

			w := doRequest(jobsRouter(repo), http.MethodGet, tt.path, "")
			if w.Code != tt.wantCode {
				t.Fatalf("status %d, want %d body=%s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestJobs_Retry(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "requeued", wantCode: http.StatusAccepted},
		{name: "not_failed", err: job.ErrJobNotFailed, wantCode: http.StatusConflict, wantErr: "job_not_failed"},
		{name: "missing", err: job.ErrJobNotFound, wantCode: http.StatusNotFound, wantErr: "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeJobs{retryFn: func(context.Context, string) (job.Job, error) {
				return job.Job{ID: id, Status: job.StatusPending}, tt.err
			}}

			w := doRequest(jobsRouter(repo), http.MethodPost, "/api/jobs/"+id+"/retry", "")
			if w.Code != tt.wantCode {
				t.Fatalf("status %d, want %d body=%s", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantErr != "" {
				if env := decodeError(t, w); env.Error.Code != tt.wantErr {
					t.Fatalf("error code %q, want %q", env.Error.Code, tt.wantErr)
				}
			}
		})
	}
}
