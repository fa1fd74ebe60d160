package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hrportal/hradmin/internal/domain/job"
)

// JobsRepo is a process-local queue with the same claim semantics as the
// Postgres jobs table.
type JobsRepo struct {
	mu    sync.Mutex
	items map[string]job.Job
	now   func() time.Time
}

func NewJobsRepo() *JobsRepo {
	return &JobsRepo{items: make(map[string]job.Job), now: time.Now}
}

func (r *JobsRepo) Create(_ context.Context, req job.CreateRequest) (job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.IdempotencyKey != nil {
		for _, j := range r.items {
			if j.IdempotencyKey != nil && *j.IdempotencyKey == *req.IdempotencyKey {
				return j, nil
			}
		}
	}

	j := job.New(req)
	r.items[j.ID] = j
	return j, nil
}

func (r *JobsRepo) GetByID(_ context.Context, id string) (job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.items[id]
	if !ok {
		return job.Job{}, job.ErrJobNotFound
	}
	return j, nil
}

func (r *JobsRepo) ClaimNext(_ context.Context, workerID string) (job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	ready := make([]job.Job, 0)
	for _, j := range r.items {
		if j.Status == job.StatusPending && !j.RunAt.After(now) && j.Attempts < j.MaxAttempts {
			ready = append(ready, j)
		}
	}
	if len(ready) == 0 {
		return job.Job{}, job.ErrJobNotFound
	}

	slices.SortFunc(ready, func(a, b job.Job) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		if c := a.RunAt.Compare(b.RunAt); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	j := ready[0]
	j.Status = job.StatusProcessing
	j.LockedAt = &now
	j.LockedBy = &workerID
	j.UpdatedAt = now
	r.items[j.ID] = j
	return j, nil
}

func (r *JobsRepo) MarkDone(_ context.Context, id string) error {
	return r.mutate(id, func(j *job.Job) {
		j.Status = job.StatusDone
		j.Attempts++
		j.LastError = nil
	})
}

func (r *JobsRepo) MarkFailed(_ context.Context, id string, errMsg string) error {
	return r.mutate(id, func(j *job.Job) {
		j.Status = job.StatusFailed
		j.Attempts++
		j.LastError = &errMsg
	})
}

func (r *JobsRepo) Reschedule(_ context.Context, id string, runAt time.Time, errMsg string) error {
	return r.mutate(id, func(j *job.Job) {
		j.Status = job.StatusPending
		j.Attempts++
		j.RunAt = runAt
		j.LastError = &errMsg
	})
}

func (r *JobsRepo) RequeueStaleProcessing(_ context.Context, lockTTL time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-lockTTL)
	var n int64
	for id, j := range r.items {
		if j.Status == job.StatusProcessing && j.LockedAt != nil && j.LockedAt.Before(cutoff) {
			j.Status = job.StatusPending
			j.LockedAt = nil
			j.LockedBy = nil
			j.UpdatedAt = r.now().UTC()
			r.items[id] = j
			n++
		}
	}
	return n, nil
}

func (r *JobsRepo) Retry(_ context.Context, id string) (job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.items[id]
	if !ok {
		return job.Job{}, job.ErrJobNotFound
	}
	if j.Status != job.StatusFailed {
		return job.Job{}, job.ErrJobNotFailed
	}

	j.Status = job.StatusPending
	j.Attempts = 0
	j.RunAt = r.now().UTC()
	j.LastError = nil
	j.UpdatedAt = j.RunAt
	r.items[id] = j
	return j, nil
}

func (r *JobsRepo) mutate(id string, fn func(j *job.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.items[id]
	if !ok {
		return job.ErrJobNotFound
	}

	fn(&j)
	j.LockedAt = nil
	j.LockedBy = nil
	j.UpdatedAt = r.now().UTC()
	r.items[id] = j
	return nil
}
