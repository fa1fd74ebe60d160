package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hrportal/hradmin/internal/auth"
	"github.com/hrportal/hradmin/internal/config"
	"github.com/hrportal/hradmin/internal/db"
	apphttp "github.com/hrportal/hradmin/internal/http"
	"github.com/hrportal/hradmin/internal/http/handlers"
	"github.com/hrportal/hradmin/internal/observability"
	"github.com/hrportal/hradmin/internal/queue/worker"
	"github.com/hrportal/hradmin/internal/repo/memory"
	"github.com/hrportal/hradmin/internal/repo/postgres"
)

// JobStore is what both the API and the worker need from the jobs table.
type JobStore interface {
	apphttp.JobStore
	worker.JobsRepository
}

// Storage groups the repositories of one backend.
type Storage struct {
	Users      auth.UserStore
	Employees  handlers.EmployeeStore
	Attendance handlers.AttendanceStore
	Jobs       JobStore

	// Ping is nil for the in-memory backend.
	Ping  func(ctx context.Context) error
	close func()
}

func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// Shared reports whether another process can see the same data.
func (s *Storage) Shared() bool {
	return s.Ping != nil
}

// OpenStorage connects the backend selected by STORAGE and applies the
// schema for Postgres.
func OpenStorage(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (*Storage, error) {
	switch cfg.Storage {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		return NewMemoryStorage(), nil

	case "", "postgres":
		pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}

		return &Storage{
			Users:      postgres.NewUsersRepo(pool, prom),
			Employees:  postgres.NewEmployeesRepo(pool, prom),
			Attendance: postgres.NewAttendanceRepo(pool, prom),
			Jobs:       postgres.NewJobsRepo(pool, prom),
			Ping:       pool.Ping,
			close:      pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORAGE %q (want postgres or memory)", cfg.Storage)
	}
}

func NewMemoryStorage() *Storage {
	emps := memory.NewEmployeesRepo()

	return &Storage{
		Users:      memory.NewUsersRepo(),
		Employees:  emps,
		Attendance: memory.NewAttendanceRepo(emps),
		Jobs:       memory.NewJobsRepo(),
	}
}
