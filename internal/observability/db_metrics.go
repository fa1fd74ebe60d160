package observability

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ObserveDB times fn under op. A missing row is an outcome, not a failure,
// and is recorded as status "not_found" without touching the error counter.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	if p == nil {
		return fn()
	}

	start := time.Now()
	err := fn()

	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		status = "not_found"
	default:
		status = "error"
		p.DbErrorsTotal.WithLabelValues(op, classifyDBErr(err)).Inc()
	}

	p.DbQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

func classifyDBErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "23514":
			// department / status codes outside the enum
			return "check_violation"
		case "57014":
			return "query_canceled"
		case "40P01":
			return "deadlock"
		default:
			return "pg_" + pgErr.Code
		}
	}

	if pgconn.Timeout(err) {
		return "timeout"
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connect") {
		return "connection"
	}
	return "unknown"
}
