package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hrportal/hradmin/internal/app"
	"github.com/hrportal/hradmin/internal/config"
	"github.com/hrportal/hradmin/internal/observability"
	"github.com/hrportal/hradmin/internal/queue/worker"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env, "hradmin-worker")
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("worker stopped with error", "err", err)
		os.Exit(1)
	}
	log.Info("worker shutdown complete")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Storage == "memory" {
		return errors.New("the standalone worker needs STORAGE=postgres; the api runs its own worker for memory storage")
	}

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: "hradmin-worker",
			Environment: cfg.Env,
			Endpoint:    cfg.OTELEndpoint,
		})
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	st, err := app.OpenStorage(ctx, cfg, prom, log)
	if err != nil {
		return err
	}
	defer st.Close()

	rc := app.NewRedis(ctx, cfg, log)
	if rc != nil {
		defer rc.Close()
	}
	reports := app.NewReports(cfg, st, rc, prom, log)

	mailer, err := app.NewMailer(cfg, log)
	if err != nil {
		return err
	}

	w := app.NewWorker(cfg, st.Jobs, reports, mailer, prom, log)

	healthSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WorkerHealthPort),
		Handler:           w.HealthHandler(pingFunc(st.Ping), reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("worker health server starting", "port", cfg.WorkerHealthPort)
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("worker health server failed", "err", err)
		}
	}()

	log.Info("worker has started")
	runErr := w.Run(ctx)

	sctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()
	_ = healthSrv.Shutdown(sctx)

	return runErr
}

// pingFunc adapts a storage ping to the health handler's Pinger.
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

var _ worker.Pinger = pingFunc(nil)
