package app

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/hrportal/hradmin/internal/auth"
	"github.com/hrportal/hradmin/internal/cache"
	"github.com/hrportal/hradmin/internal/config"
	"github.com/hrportal/hradmin/internal/db"
	"github.com/hrportal/hradmin/internal/jobs"
	"github.com/hrportal/hradmin/internal/notifications"
	"github.com/hrportal/hradmin/internal/observability"
	"github.com/hrportal/hradmin/internal/queue/redisclient"
	"github.com/hrportal/hradmin/internal/queue/worker"
	"github.com/hrportal/hradmin/internal/render"
	"github.com/hrportal/hradmin/internal/report"
	"github.com/hrportal/hradmin/internal/security"
)

// NewAuth builds the token manager and the account service and seeds the
// admin account when one is configured.
func NewAuth(ctx context.Context, cfg config.Config, users auth.UserStore, log *slog.Logger) (*auth.Manager, *auth.Service, error) {
	hasher, err := security.NewHasher(cfg.PasswordHasher)
	if err != nil {
		return nil, nil, err
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL())

	seedCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.EnsureAdminUser(seedCtx, users, hasher, cfg, log); err != nil {
		return nil, nil, err
	}

	return tokens, auth.NewService(users, hasher, tokens, log), nil
}

// NewRedis returns nil when REDIS_ADDR is unset.
func NewRedis(ctx context.Context, cfg config.Config, log *slog.Logger) *redisclient.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rc := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		// the cache degrades to misses; reports still render
		log.Warn("redis unreachable at startup", "addr", cfg.RedisAddr, "err", err)
	}
	return rc
}

// NewReports wires both renderers and the report cache. Redis is used when
// rc is set; otherwise the cache is process-local, which is only safe when
// a single process writes and reads the data.
func NewReports(cfg config.Config, st *Storage, rc *redisclient.Client, prom *observability.Prom, log *slog.Logger) *report.Service {
	renderers := map[report.Format]report.Renderer{
		report.FormatPDF:   render.NewPDF(),
		report.FormatExcel: render.NewExcel(),
	}

	var opts []report.Option
	switch {
	case cfg.ReportCacheTTLSeconds <= 0:
	case rc != nil:
		opts = append(opts, report.WithCache(cache.NewRedis(rc.Raw(), cfg.ReportCacheTTL(), log)))
	default:
		opts = append(opts, report.WithCache(cache.NewMemory(cfg.ReportCacheTTL())))
	}
	if prom != nil {
		opts = append(opts, report.WithRecorder(prom))
	}

	return report.NewService(st.Employees, st.Attendance, renderers, log, opts...)
}

// NewMailer sends through SMTP when SMTP_HOST is set and logs otherwise.
// Either way sends go through the circuit breaker.
func NewMailer(cfg config.Config, log *slog.Logger) (notifications.Mailer, error) {
	var inner notifications.Mailer = notifications.NewLogMailer(log)

	if cfg.SMTPHost != "" {
		m, err := notifications.NewSMTPMailer(notifications.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			return nil, err
		}
		inner = m
	}

	return notifications.NewProtectedMailer(inner, notifications.ProtectedMailerConfig{
		Timeout:          15 * time.Second,
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
	}), nil
}

func workerID() string {
	host, _ := os.Hostname()
	if host == "" {
		host = "worker"
	}
	return host + "-" + strconv.Itoa(os.Getpid())
}

// NewWorker builds a job worker with every job handler registered.
func NewWorker(cfg config.Config, repo worker.JobsRepository, gen jobs.ReportGenerator, mailer notifications.Mailer, prom *observability.Prom, log *slog.Logger) *worker.Worker {
	var metrics worker.Metrics
	if prom != nil {
		metrics = prom
	}

	w := worker.New(worker.Config{
		PollInterval: time.Duration(cfg.WorkerPollMillis) * time.Millisecond,
		WorkerID:     workerID(),
		Concurrency:  cfg.WorkerConcurrency,
		LockTTL:      time.Duration(cfg.WorkerLockTTLSecs) * time.Second,
		JobTimeout:   time.Minute,
	}, repo, log, metrics)

	w.Handle(string(jobs.JobReportEmail), jobs.NewReportEmailHandler(gen, mailer, log))
	return w
}
