package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hrportal/hradmin/internal/domain/job"
	"github.com/hrportal/hradmin/internal/notifications"
	"github.com/hrportal/hradmin/internal/queue/worker"
	"github.com/hrportal/hradmin/internal/report"
)

type fakeGenerator struct {
	generateFn func(ctx context.Context, req report.Request) (report.Document, error)
	got        report.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req report.Request) (report.Document, error) {
	f.got = req
	return f.generateFn(ctx, req)
}

type fakeMailer struct {
	err  error
	sent []notifications.Message
}

func (m *fakeMailer) Send(_ context.Context, msg notifications.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func reportJob(t *testing.T, p ReportEmailPayload) job.Job {
	t.Helper()
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return job.Job{ID: "job-1", Type: string(JobReportEmail), Payload: b}
}

func okGenerator() *fakeGenerator {
	return &fakeGenerator{generateFn: func(_ context.Context, req report.Request) (report.Document, error) {
		return report.Document{
			Content:     []byte("%PDF-1.3"),
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("salary-report-%d-%02d.pdf", req.Year, req.Month),
		}, nil
	}}
}

func TestReportEmailHandler_SendsAttachment(t *testing.T) {
	gen := okGenerator()
	mailer := &fakeMailer{}
	h := NewReportEmailHandler(gen, mailer, nil)

	p := ReportEmailPayload{Report: report.KindSalary, Format: report.FormatPDF, Month: 3, Year: 2024, Recipient: "hr@example.com", RequestedBy: "admin"}
	if err := h(context.Background(), reportJob(t, p)); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if gen.got.Kind != report.KindSalary || gen.got.Month != 3 || gen.got.Year != 2024 {
		t.Fatalf("unexpected generator request %+v", gen.got)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(mailer.sent))
	}

	msg := mailer.sent[0]
	if msg.To != "hr@example.com" || !strings.Contains(msg.Subject, "Salary Report") {
		t.Fatalf("unexpected message %+v", msg)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].Filename != "salary-report-2024-03.pdf" {
		t.Fatalf("unexpected attachments %+v", msg.Attachments)
	}
}

func TestReportEmailHandler_ErrorClasses(t *testing.T) {
	valid := ReportEmailPayload{Report: report.KindDirectory, Format: report.FormatExcel, Recipient: "hr@example.com"}

	tests := []struct {
		name          string
		job           func(t *testing.T) job.Job
		genErr        error
		mailErr       error
		wantPermanent bool
	}{
		{
			name:          "corrupt_payload",
			job:           func(*testing.T) job.Job { return job.Job{ID: "j", Type: string(JobReportEmail), Payload: []byte("{")} },
			wantPermanent: true,
		},
		{
			name:          "invalid_report_parameters",
			job:           func(t *testing.T) job.Job { return reportJob(t, valid) },
			genErr:        report.ErrInvalidMonth,
			wantPermanent: true,
		},
		{
			name:   "storage_failure_retries",
			job:    func(t *testing.T) job.Job { return reportJob(t, valid) },
			genErr: errors.New("connection refused"),
		},
		{
			name:    "smtp_failure_retries",
			job:     func(t *testing.T) job.Job { return reportJob(t, valid) },
			mailErr: notifications.ErrCircuitOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := okGenerator()
			if tt.genErr != nil {
				gen.generateFn = func(context.Context, report.Request) (report.Document, error) {
					return report.Document{}, tt.genErr
				}
			}
			h := NewReportEmailHandler(gen, &fakeMailer{err: tt.mailErr}, nil)

			err := h(context.Background(), tt.job(t))
			if err == nil {
				t.Fatalf("expected error")
			}
			if worker.IsPermanent(err) != tt.wantPermanent {
				t.Fatalf("permanent=%v, want %v (err=%v)", worker.IsPermanent(err), tt.wantPermanent, err)
			}
		})
	}
}
