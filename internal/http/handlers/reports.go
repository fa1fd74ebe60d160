package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrportal/hradmin/internal/config"
	"github.com/hrportal/hradmin/internal/domain/job"
	"github.com/hrportal/hradmin/internal/http/middlewares"
	"github.com/hrportal/hradmin/internal/jobs"
	"github.com/hrportal/hradmin/internal/report"
)

const reportTimeout = 30 * time.Second

type ReportGenerator interface {
	Validate(req report.Request) error
	Generate(ctx context.Context, req report.Request) (report.Document, error)
}

type JobEnqueuer interface {
	Create(ctx context.Context, req job.CreateRequest) (job.Job, error)
}

type ReportsHandler struct {
	gen  ReportGenerator
	jobs JobEnqueuer
	// maxAttempts <= 0 keeps the queue default.
	maxAttempts int
}

func NewReportsHandler(gen ReportGenerator, jobs JobEnqueuer, maxAttempts int) *ReportsHandler {
	return &ReportsHandler{gen: gen, jobs: jobs, maxAttempts: maxAttempts}
}

type EmailReportRequest struct {
	Recipient string `json:"recipient" binding:"required,email"`
}

// parseQueryDate accepts YYYY-MM-DD or RFC 3339. Timestamps are moved to UTC
// so the calendar day matches the one attendance rows are stored under.
func parseQueryDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseQueryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

// reportRequestFrom reads path and query parameters. It writes the error
// response itself and returns false when the request is malformed.
func reportRequestFrom(ctx *gin.Context) (report.Request, bool) {
	kind, err := report.ParseKind(ctx.Param("report"))
	if err != nil {
		RespondNotFound(ctx, "Unknown report")
		return report.Request{}, false
	}
	format, err := report.ParseFormat(strings.ToLower(ctx.Param("format")))
	if err != nil {
		RespondNotFound(ctx, "Unknown report format")
		return report.Request{}, false
	}

	req := report.Request{Kind: kind, Format: format}
	fields := make([]FieldError, 0)

	switch kind {
	case report.KindAttendance:
		for _, p := range []struct {
			name string
			dst  *time.Time
		}{{"startDate", &req.Start}, {"endDate", &req.End}} {
			raw := ctx.Query(p.name)
			if raw == "" {
				fields = append(fields, FieldError{Field: p.name, Rule: "required", Message: "is required"})
				continue
			}
			t, perr := parseQueryDate(raw)
			if perr != nil {
				fields = append(fields, FieldError{Field: p.name, Rule: "date", Message: "must be YYYY-MM-DD or RFC 3339"})
				continue
			}
			*p.dst = t
		}

	case report.KindSalary:
		for _, p := range []struct {
			name string
			dst  *int
		}{{"month", &req.Month}, {"year", &req.Year}} {
			n, perr := parseQueryInt(ctx.Query(p.name))
			if perr != nil {
				fields = append(fields, FieldError{Field: p.name, Rule: "type", Message: "must be an integer"})
				continue
			}
			*p.dst = n
		}
	}

	if len(fields) > 0 {
		RespondBadRequest(ctx, "Invalid report parameters", gin.H{"fields": fields})
		return report.Request{}, false
	}
	return req, true
}

func respondReportError(ctx *gin.Context, err error) {
	if report.IsClientError(err) {
		RespondBadRequest(ctx, reportErrorMessage(err), nil)
		return
	}
	RespondInternalErr(ctx, "Error generating report", err)
}

func reportErrorMessage(err error) string {
	switch {
	case errors.Is(err, report.ErrInvalidMonth):
		return "Month must be between 1 and 12"
	case errors.Is(err, report.ErrInvalidYear):
		return "Invalid year"
	case errors.Is(err, report.ErrInvalidRange):
		return "Start date must be before end date"
	default:
		return err.Error()
	}
}

// GET /api/Reports/:report/:format
func (h *ReportsHandler) Download(ctx *gin.Context) {
	req, ok := reportRequestFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(reportTimeout)
	defer cancel()

	doc, err := h.gen.Generate(cctx, req)
	if err != nil {
		respondReportError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	respondWithETag(ctx, http.StatusOK, doc.ContentType, doc.Content)
}

// POST /api/Reports/:report/:format/email
func (h *ReportsHandler) Email(ctx *gin.Context) {
	req, ok := reportRequestFrom(ctx)
	if !ok {
		return
	}

	var body EmailReportRequest
	if !BindJSON(ctx, &body) {
		return
	}

	if err := h.gen.Validate(req); err != nil {
		respondReportError(ctx, err)
		return
	}

	requestedBy, _ := middlewares.UsernameFromContext(ctx)
	requestID := requestIDFrom(ctx)

	payload := jobs.NewReportEmailPayload(req, strings.TrimSpace(body.Recipient), requestedBy, requestID)
	raw, err := jobs.EncodePayload(jobs.JobReportEmail, payload)
	if err != nil {
		RespondBadRequest(ctx, "Invalid report e-mail request", gin.H{"reason": err.Error()})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	create := job.CreateRequest{
		Type:        string(jobs.JobReportEmail),
		Payload:     json.RawMessage(raw),
		MaxAttempts: h.maxAttempts,
	}
	// a client retrying with the same X-Request-Id gets the same job back
	if requestID != "" {
		key := "report-email:" + requestID
		create.IdempotencyKey = &key
	}
	if uid, ok := middlewares.UserIDFromContext(ctx); ok {
		create.UserID = &uid
	}

	j, err := h.jobs.Create(cctx, create)
	if err != nil {
		RespondInternalErr(ctx, "Could not enqueue report e-mail", err)
		return
	}

	ctx.Set(middlewares.CtxJobID, j.ID)
	slog.Default().InfoContext(ctx.Request.Context(), "job.enqueue",
		"job_id", j.ID,
		"job_type", j.Type,
		"report", req.Kind,
		"format", req.Format,
	)

	ctx.Header("Location", "/api/jobs/"+j.ID)
	ctx.JSON(http.StatusAccepted, j.ToView())
}
