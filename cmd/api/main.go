package main

import (
	"context"
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
	httpx "github.com/hrportal/hradmin/internal/http"
	"github.com/hrportal/hradmin/internal/observability"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env, "hradmin-api")
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: "hradmin-api",
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

	tokens, authSvc, err := app.NewAuth(ctx, cfg, st.Users, log)
	if err != nil {
		return err
	}

	rc := app.NewRedis(ctx, cfg, log)
	if rc != nil {
		defer rc.Close()
	}
	reports := app.NewReports(cfg, st, rc, prom, log)

	router, err := httpx.NewRouter(httpx.Deps{
		Log:        log,
		Config:     cfg,
		Prom:       prom,
		Gatherer:   reg,
		Ping:       st.Ping,
		Auth:       authSvc,
		Tokens:     tokens,
		Employees:  st.Employees,
		Attendance: st.Attendance,
		Reports:    reports,
		Jobs:       st.Jobs,
	})
	if err != nil {
		return err
	}

	// in-memory jobs are only visible to this process, so run the worker here
	workerDone := make(chan struct{})
	if !st.Shared() {
		mailer, err := app.NewMailer(cfg, log)
		if err != nil {
			return err
		}
		w := app.NewWorker(cfg, st.Jobs, reports, mailer, prom, log)
		go func() {
			defer close(workerDone)
			if err := w.Run(ctx); err != nil {
				log.Error("embedded worker stopped", "err", err)
			}
		}()
	} else {
		close(workerDone)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	log.Info("server shutting down")

	sctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}

	select {
	case <-workerDone:
		log.Info("shutdown complete")
	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
	return nil
}
