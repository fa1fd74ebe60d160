package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hrportal/hradmin/internal/config"
	"github.com/hrportal/hradmin/internal/domain/job"
	"github.com/hrportal/hradmin/internal/http/middlewares"
)

type JobsReader interface {
	GetByID(ctx context.Context, id string) (job.Job, error)
	Retry(ctx context.Context, id string) (job.Job, error)
}

type JobsHandler struct {
	repo JobsReader
}

func NewJobsHandler(repo JobsReader) *JobsHandler {
	return &JobsHandler{repo: repo}
}

func jobIDParam(ctx *gin.Context) (string, bool) {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		RespondBadRequest(ctx, "id must be a UUID", nil)
		return "", false
	}
	ctx.Set(middlewares.CtxJobID, id)
	return id, true
}

// GET /api/jobs/:id
func (h *JobsHandler) Get(ctx *gin.Context) {
	id, ok := jobIDParam(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	j, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}
		RespondInternalErr(ctx, "Could not fetch job", err)
		return
	}

	ctx.JSON(http.StatusOK, j.ToView())
}

// POST /api/jobs/:id/retry
func (h *JobsHandler) Retry(ctx *gin.Context) {
	id, ok := jobIDParam(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	j, err := h.repo.Retry(cctx, id)
	if err != nil {
		switch {
		case errors.Is(err, job.ErrJobNotFound):
			RespondNotFound(ctx, "Job not found")
		case errors.Is(err, job.ErrJobNotFailed):
			RespondConflict(ctx, "job_not_failed", "Only failed jobs can be retried")
		default:
			RespondInternalErr(ctx, "Could not retry job", err)
		}
		return
	}

	ctx.JSON(http.StatusAccepted, j.ToView())
}
