package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hrportal/hradmin/internal/domain/job"
)

var ErrNoHandler = errors.New("no handler registered for job type")

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// ProcessOne claims and runs at most one job. It reports whether a job was
// claimed.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	claimCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	j, err := w.repo.ClaimNext(claimCtx, w.cfg.WorkerID)
	cancel()

	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			return false, nil
		}
		return false, err
	}

	start := w.now()
	if w.metrics != nil {
		w.metrics.JobStarted()
	}

	err = w.execute(ctx, j)

	result := "done"
	var markErr error
	if err != nil {
		result = w.handleFailure(ctx, j, err)
	} else if markErr = w.repo.MarkDone(ctx, j.ID); markErr != nil {
		_ = w.repo.MarkFailed(ctx, j.ID, "mark_done_failed: "+markErr.Error())
		result = "failed"
	}

	if w.metrics != nil {
		w.metrics.JobFinished(j.Type, result, w.now().Sub(start))
	}

	if markErr != nil {
		return true, fmt.Errorf("mark done %s: %w", j.ID, markErr)
	}
	if result == "done" {
		w.log.InfoContext(ctx, "job done", "job_id", j.ID, "type", j.Type, "attempt", j.Attempts+1)
	}
	return true, nil
}

func (w *Worker) execute(ctx context.Context, j job.Job) error {
	h, ok := w.handlers[j.Type]
	if !ok {
		return Permanent(fmt.Errorf("%w: %s", ErrNoHandler, j.Type))
	}

	runCtx, cancel := context.WithTimeout(ctx, w.cfg.JobTimeout)
	defer cancel()

	return h(runCtx, j)
}

// handleFailure reschedules with backoff or fails the job for good. It
// returns the metrics result label.
func (w *Worker) handleFailure(ctx context.Context, j job.Job, cause error) string {
	msg := cause.Error()
	nextAttempt := j.Attempts + 1

	if IsPermanent(cause) || nextAttempt >= j.MaxAttempts {
		if err := w.repo.MarkFailed(ctx, j.ID, msg); err != nil {
			w.log.ErrorContext(ctx, "mark failed failed", "job_id", j.ID, "err", err)
		}
		w.log.WarnContext(ctx, "job failed",
			"job_id", j.ID, "type", j.Type, "attempt", nextAttempt, "permanent", IsPermanent(cause), "err", msg)
		return "failed"
	}

	runAt := w.now().Add(ExponentialBackoff(j.Attempts))
	if err := w.repo.Reschedule(ctx, j.ID, runAt, msg); err != nil {
		w.log.ErrorContext(ctx, "reschedule failed", "job_id", j.ID, "err", err)
	}
	w.log.WarnContext(ctx, "job retry scheduled",
		"job_id", j.ID, "type", j.Type, "attempt", nextAttempt, "run_at", runAt, "err", msg)
	return "retry"
}
