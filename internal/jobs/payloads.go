package jobs

import (
	"time"

	"github.com/hrportal/hradmin/internal/report"
)

// ReportEmailPayload asks the worker to render a report and mail it. Only
// the report parameters are stored; the worker renders from current data.
type ReportEmailPayload struct {
	Report      report.Kind   `json:"report"`
	Format      report.Format `json:"format"`
	Start       *time.Time    `json:"start,omitempty"`
	End         *time.Time    `json:"end,omitempty"`
	Month       int           `json:"month,omitempty"`
	Year        int           `json:"year,omitempty"`
	Recipient   string        `json:"recipient"`
	RequestedBy string        `json:"requestedBy,omitempty"`
	RequestID   string        `json:"requestId,omitempty"`
}

// ReportRequest converts the payload back into a generator request.
func (p ReportEmailPayload) ReportRequest() report.Request {
	req := report.Request{
		Kind:   p.Report,
		Format: p.Format,
		Month:  p.Month,
		Year:   p.Year,
	}
	if p.Start != nil {
		req.Start = *p.Start
	}
	if p.End != nil {
		req.End = *p.End
	}
	return req
}

func NewReportEmailPayload(req report.Request, recipient, requestedBy, requestID string) ReportEmailPayload {
	p := ReportEmailPayload{
		Report:      req.Kind,
		Format:      req.Format,
		Month:       req.Month,
		Year:        req.Year,
		Recipient:   recipient,
		RequestedBy: requestedBy,
		RequestID:   requestID,
	}
	if !req.Start.IsZero() {
		s := req.Start
		p.Start = &s
	}
	if !req.End.IsZero() {
		e := req.End
		p.End = &e
	}
	return p
}
