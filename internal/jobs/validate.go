package jobs

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hrportal/hradmin/internal/report"
)

var validate = validator.New()

// ValidatePayload checks the fields a worker needs before it can run the job.
// Report parameters (range, month, year) are validated by the generator.
func ValidatePayload(t JobType, payload any) error {
	if !t.IsValid() {
		return ErrInvalidJobType
	}

	switch t {
	case JobReportEmail:
		var p ReportEmailPayload
		switch v := payload.(type) {
		case ReportEmailPayload:
			p = v
		case *ReportEmailPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}

		if _, err := report.ParseKind(string(p.Report)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}
		if _, err := report.ParseFormat(string(p.Format)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}
		if err := validate.Var(strings.TrimSpace(p.Recipient), "required,email"); err != nil {
			return fmt.Errorf("%w: recipient: %v", ErrInvalidJobPayload, err)
		}
		return nil

	default:
		return ErrInvalidJobType
	}
}
