package notifications

import (
	"context"
	"log/slog"
)

// LogMailer records messages instead of sending them. Used when no SMTP host
// is configured.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	if log == nil {
		log = slog.Default()
	}
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	names := make([]string, 0, len(msg.Attachments))
	size := 0
	for _, a := range msg.Attachments {
		names = append(names, a.Filename)
		size += len(a.Content)
	}

	m.log.InfoContext(ctx, "mail.logged",
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", names,
		"bytes", size,
	)
	return nil
}
