package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrportal/hradmin/internal/domain/job"
	"github.com/hrportal/hradmin/internal/observability"
)

const jobColumns = `id, type, payload, status, attempts, max_attempts, run_at, locked_at, locked_by,
	last_error, idempotency_key, priority, user_id, created_at, updated_at`

type JobsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewJobsRepo(pool *pgxpool.Pool, prom *observability.Prom) *JobsRepo {
	return &JobsRepo{pool: pool, prom: prom}
}

func (r *JobsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanJob(row pgx.Row) (job.Job, error) {
	var j job.Job
	var status string

	err := row.Scan(
		&j.ID, &j.Type, &j.Payload, &status,
		&j.Attempts, &j.MaxAttempts,
		&j.RunAt, &j.LockedAt, &j.LockedBy,
		&j.LastError, &j.IdempotencyKey, &j.Priority, &j.UserID,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrJobNotFound
		}
		return job.Job{}, err
	}

	j.Status = job.Status(status)
	return j, nil
}

// Create enqueues a job. A repeated idempotency key returns the job that
// already holds it instead of inserting a duplicate.
func (r *JobsRepo) Create(ctx context.Context, req job.CreateRequest) (job.Job, error) {
	j := job.New(req)

	err := r.observe("jobs.create", func() error {
		_, err := r.pool.Exec(ctx, `INSERT INTO jobs (`+jobColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			j.ID, j.Type, j.Payload, string(j.Status), j.Attempts, j.MaxAttempts, j.RunAt,
			j.LockedAt, j.LockedBy, j.LastError, j.IdempotencyKey, j.Priority, j.UserID,
			j.CreatedAt, j.UpdatedAt,
		)
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) && req.IdempotencyKey != nil {
			return r.GetByIdempotencyKey(ctx, *req.IdempotencyKey)
		}
		return job.Job{}, err
	}

	return j, nil
}

func (r *JobsRepo) MarkFailed(ctx context.Context, id string, errMsg string) error {
	return r.update(ctx, "jobs.mark_failed", `
		UPDATE jobs
		SET status = 'failed',
		    attempts = attempts + 1,
		    locked_at = NULL,
		    locked_by = NULL,
		    last_error = $2,
		    updated_at = NOW()
		WHERE id = $1`, id, errMsg)
}

func (r *JobsRepo) MarkDone(ctx context.Context, id string) error {
	return r.update(ctx, "jobs.mark_done", `
		UPDATE jobs
		SET status = 'done',
		    attempts = attempts + 1,
		    locked_at = NULL,
		    locked_by = NULL,
		    last_error = NULL,
		    updated_at = NOW()
		WHERE id = $1`, id)
}

// Reschedule puts a failed attempt back to pending at runAt.
func (r *JobsRepo) Reschedule(ctx context.Context, id string, runAt time.Time, errMsg string) error {
	return r.update(ctx, "jobs.reschedule", `
		UPDATE jobs
		SET status = 'pending',
		    attempts = attempts + 1,
		    run_at = $2,
		    locked_at = NULL,
		    locked_by = NULL,
		    last_error = $3,
		    updated_at = NOW()
		WHERE id = $1`, id, runAt, errMsg)
}

func (r *JobsRepo) update(ctx context.Context, op, q string, args ...any) error {
	var tag pgconn.CommandTag

	err := r.observe(op, func() error {
		var execErr error
		tag, execErr = r.pool.Exec(ctx, q, args...)
		return execErr
	})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return job.ErrJobNotFound
	}
	return nil
}

// ClaimNext locks the next runnable job for workerID. It returns
// job.ErrJobNotFound when nothing is ready.
func (r *JobsRepo) ClaimNext(ctx context.Context, workerID string) (job.Job, error) {
	var j job.Job

	err := r.observe("jobs.claim_next", func() error {
		var scanErr error
		j, scanErr = scanJob(r.pool.QueryRow(ctx, `
			WITH next AS (
				SELECT id
				FROM jobs
				WHERE status = 'pending'
				  AND run_at <= NOW()
				  AND attempts < max_attempts
				ORDER BY priority DESC, run_at ASC, created_at ASC
				FOR UPDATE SKIP LOCKED
				LIMIT 1
			)
			UPDATE jobs
			SET status = 'processing',
			    locked_at = NOW(),
			    locked_by = $1,
			    updated_at = NOW()
			WHERE id = (SELECT id FROM next)
			RETURNING `+jobColumns, workerID))
		if errors.Is(scanErr, job.ErrJobNotFound) {
			// an empty queue is not a DB error
			return nil
		}
		return scanErr
	})
	if err != nil {
		return job.Job{}, err
	}

	if j.ID == "" {
		return job.Job{}, job.ErrJobNotFound
	}
	return j, nil
}

func (r *JobsRepo) GetByIdempotencyKey(ctx context.Context, key string) (job.Job, error) {
	return r.getOne(ctx, "jobs.get_by_idempotency_key", `SELECT `+jobColumns+` FROM jobs WHERE idempotency_key = $1`, key)
}

func (r *JobsRepo) GetByID(ctx context.Context, id string) (job.Job, error) {
	return r.getOne(ctx, "jobs.get_by_id", `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
}

func (r *JobsRepo) getOne(ctx context.Context, op, q string, arg string) (job.Job, error) {
	var j job.Job

	err := r.observe(op, func() error {
		var scanErr error
		j, scanErr = scanJob(r.pool.QueryRow(ctx, q, arg))
		return scanErr
	})
	return j, err
}

// RequeueStaleProcessing returns jobs whose lock is older than lockTTL to
// pending. Their worker is assumed dead.
func (r *JobsRepo) RequeueStaleProcessing(ctx context.Context, lockTTL time.Duration) (int64, error) {
	secs := int64(lockTTL.Seconds())
	if secs <= 0 {
		secs = 30
	}

	var rows int64
	err := r.observe("jobs.requeue_stale", func() error {
		tag, err := r.pool.Exec(ctx, `
			UPDATE jobs
			SET status = 'pending',
			    locked_at = NULL,
			    locked_by = NULL,
			    updated_at = NOW()
			WHERE status = 'processing'
			  AND locked_at IS NOT NULL
			  AND locked_at < NOW() - ($1 * INTERVAL '1 second')`, secs)
		if err != nil {
			return err
		}
		rows = tag.RowsAffected()
		return nil
	})

	return rows, err
}

// Retry re-queues a failed job with a fresh attempt budget.
func (r *JobsRepo) Retry(ctx context.Context, id string) (job.Job, error) {
	var j job.Job

	err := r.observe("jobs.retry", func() error {
		var scanErr error
		j, scanErr = scanJob(r.pool.QueryRow(ctx, `
			UPDATE jobs
			SET status = 'pending',
			    attempts = 0,
			    run_at = NOW(),
			    locked_at = NULL,
			    locked_by = NULL,
			    last_error = NULL,
			    updated_at = NOW()
			WHERE id = $1 AND status = 'failed'
			RETURNING `+jobColumns, id))
		return scanErr
	})

	if errors.Is(err, job.ErrJobNotFound) {
		// either missing or not failed
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return job.Job{}, getErr
		}
		return job.Job{}, job.ErrJobNotFailed
	}
	return j, err
}
