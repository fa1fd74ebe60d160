package jobs

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/hrportal/hradmin/internal/domain/job"
	"github.com/hrportal/hradmin/internal/notifications"
	"github.com/hrportal/hradmin/internal/observability"
	"github.com/hrportal/hradmin/internal/queue/worker"
	"github.com/hrportal/hradmin/internal/report"
)

type ReportGenerator interface {
	Generate(ctx context.Context, req report.Request) (report.Document, error)
}

var reportTitles = map[report.Kind]string{
	report.KindDirectory:   "Employee Directory Report",
	report.KindAttendance:  "Attendance Report",
	report.KindDepartments: "Department Report",
	report.KindSalary:      "Salary Report",
}

// NewReportEmailHandler renders the requested report from current data and
// mails it as an attachment.
func NewReportEmailHandler(gen ReportGenerator, mailer notifications.Mailer, log *slog.Logger) worker.Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx context.Context, j job.Job) error {
		decoded, err := DecodePayload(j)
		if err != nil {
			return worker.Permanent(err)
		}
		p, ok := decoded.(ReportEmailPayload)
		if !ok {
			return worker.Permanent(ErrPayloadTypeMismatch)
		}
		ctx = observability.WithRequestID(ctx, p.RequestID)

		doc, err := gen.Generate(ctx, p.ReportRequest())
		if err != nil {
			if report.IsClientError(err) {
				return worker.Permanent(err)
			}
			return fmt.Errorf("generate %s: %w", p.Report, err)
		}

		msg := ReportEmailMessage(p, doc)
		if err := mailer.Send(ctx, msg); err != nil {
			if errors.Is(err, notifications.ErrCircuitOpen) {
				log.WarnContext(ctx, "mailer circuit open, job will retry", "job_id", j.ID)
			}
			return fmt.Errorf("send report: %w", err)
		}

		log.InfoContext(ctx, "report mailed",
			"job_id", j.ID,
			"report", p.Report,
			"format", p.Format,
			"bytes", len(doc.Content),
		)
		return nil
	}
}

func ReportEmailMessage(p ReportEmailPayload, doc report.Document) notifications.Message {
	title, ok := reportTitles[p.Report]
	if !ok {
		title = string(p.Report)
	}

	body := fmt.Sprintf("<p>Please find the attached %s.</p>", html.EscapeString(title))
	if p.RequestedBy != "" {
		body += fmt.Sprintf("<p>Requested by %s.</p>", html.EscapeString(p.RequestedBy))
	}

	return notifications.Message{
		To:      p.Recipient,
		Subject: "HR Report: " + title,
		Body:    body,
		Attachments: []notifications.Attachment{{
			Filename:    doc.Filename,
			ContentType: doc.ContentType,
			Content:     doc.Content,
		}},
	}
}
