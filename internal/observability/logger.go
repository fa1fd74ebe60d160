package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the JSON logger both binaries install as slog.Default.
// Every record carries the service name; dev adds debug level and source
// locations.
func NewLogger(env, service string) *slog.Logger {
	return newLogger(os.Stdout, env, service)
}

func newLogger(w io.Writer, env, service string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	switch env {
	case "dev":
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	case "test":
		opts.Level = slog.LevelWarn
	}

	handler := slog.NewJSONHandler(w, opts)

	return slog.New(NewContextHandler(handler)).With("service", service, "env", env)
}
