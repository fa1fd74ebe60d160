package jobs

import "errors"

// JobType names a handler registered on the worker.
type JobType string

// JobReportEmail renders a report and mails it as an attachment.
const JobReportEmail JobType = "report.email"

var (
	ErrInvalidJobType      = errors.New("invalid job type")
	ErrInvalidJobPayload   = errors.New("invalid job payload")
	ErrPayloadTypeMismatch = errors.New("payload type mismatch for job type")
)

func (t JobType) IsValid() bool {
	return t == JobReportEmail
}
