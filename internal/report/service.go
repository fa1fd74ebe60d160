package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrportal/hradmin/internal/domain/attendance"
	"github.com/hrportal/hradmin/internal/domain/employee"
	"github.com/hrportal/hradmin/internal/utils"
)

type Kind string

const (
	KindDirectory   Kind = "employee-directory"
	KindAttendance  Kind = "attendance"
	KindDepartments Kind = "departments"
	KindSalary      Kind = "salary"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDirectory, KindAttendance, KindDepartments, KindSalary:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReport, s)
}

type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPDF, FormatExcel:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Request selects a report. Start/End apply to attendance, Month/Year to
// salary; the other kinds ignore them.
type Request struct {
	Kind   Kind      `json:"kind"`
	Format Format    `json:"format"`
	Start  time.Time `json:"start,omitempty"`
	End    time.Time `json:"end,omitempty"`
	Month  int       `json:"month,omitempty"`
	Year   int       `json:"year,omitempty"`
}

type Document struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Renderer turns rows into document bytes. Implementations hold no business
// rules.
type Renderer interface {
	ContentType() string
	Extension() string
	Directory(rows []DirectoryRow) ([]byte, error)
	Departments(rows []DepartmentRow) ([]byte, error)
	Attendance(rows []AttendanceRow, r DateRange) ([]byte, error)
	Salary(rows []SalaryRow, p SalaryPeriod) ([]byte, error)
}

type EmployeeLister interface {
	List(ctx context.Context) ([]employee.Employee, error)
}

// AttendanceLister returns records with Employee already resolved.
type AttendanceLister interface {
	List(ctx context.Context) ([]attendance.Record, error)
}

// Cache keeps rendered bytes. A miss or a failing cache never fails a report.
// Cache stores rendered documents. Generation is read before the snapshots
// are loaded and passed back to Get and Set, so content built from data
// older than the last Invalidate is never served.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string, gen int64) ([]byte, bool)
	Set(ctx context.Context, key string, gen int64, content []byte)
	Invalidate(ctx context.Context) error
}

type Recorder interface {
	ObserveReport(kind, format, result string, d time.Duration)
}

type Service struct {
	employees  EmployeeLister
	attendance AttendanceLister
	renderers  map[Format]Renderer
	cache      Cache
	rec        Recorder
	log        *slog.Logger
	now        func() time.Time
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.rec = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(emps EmployeeLister, att AttendanceLister, renderers map[Format]Renderer, log *slog.Logger, opts ...Option) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		employees:  emps,
		attendance: att,
		renderers:  renderers,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks the request without touching storage.
func (s *Service) Validate(req Request) error {
	if _, err := ParseKind(string(req.Kind)); err != nil {
		return err
	}
	if _, ok := s.renderers[req.Format]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
	}

	switch req.Kind {
	case KindAttendance:
		_, err := NewDateRange(req.Start, req.End)
		return err
	case KindSalary:
		_, err := NewSalaryPeriod(req.Month, req.Year, s.now())
		return err
	}
	return nil
}

// Generate validates req, loads snapshots, aggregates and renders them.
func (s *Service) Generate(ctx context.Context, req Request) (Document, error) {
	start := time.Now()

	doc, cached, err := s.generate(ctx, req)

	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case cached:
		result = "cache_hit"
	}
	if s.rec != nil {
		s.rec.ObserveReport(string(req.Kind), string(req.Format), result, time.Since(start))
	}

	if err != nil {
		return Document{}, err
	}

	s.log.DebugContext(ctx, "report generated",
		"kind", req.Kind,
		"format", req.Format,
		"bytes", len(doc.Content),
		"cached", cached,
	)
	return doc, nil
}

func (s *Service) generate(ctx context.Context, req Request) (Document, bool, error) {
	if err := s.Validate(req); err != nil {
		return Document{}, false, err
	}
	r := s.renderers[req.Format]
	now := s.now()

	doc := Document{
		ContentType: r.ContentType(),
		Filename:    Filename(req, now) + "." + r.Extension(),
	}

	key := cacheKey(req)

	useCache := s.cache != nil
	var gen int64
	if useCache {
		var err error
		if gen, err = s.cache.Generation(ctx); err != nil {
			s.log.WarnContext(ctx, "report cache unavailable", "err", err)
			useCache = false
		}
	}

	if useCache {
		if content, ok := s.cache.Get(ctx, key, gen); ok {
			doc.Content = content
			return doc, true, nil
		}
	}

	content, err := s.render(ctx, req, r, now)
	if err != nil {
		return Document{}, false, err
	}
	doc.Content = content

	if useCache {
		s.cache.Set(ctx, key, gen, content)
	}
	return doc, false, nil
}

func (s *Service) render(ctx context.Context, req Request, r Renderer, now time.Time) ([]byte, error) {
	var (
		out []byte
		err error
	)

	switch req.Kind {
	case KindDirectory:
		emps, lerr := s.employees.List(ctx)
		if lerr != nil {
			return nil, fmt.Errorf("load employees: %w", lerr)
		}
		out, err = r.Directory(Directory(emps))

	case KindDepartments:
		emps, lerr := s.employees.List(ctx)
		if lerr != nil {
			return nil, fmt.Errorf("load employees: %w", lerr)
		}
		recs, lerr := s.attendance.List(ctx)
		if lerr != nil {
			return nil, fmt.Errorf("load attendance: %w", lerr)
		}
		out, err = r.Departments(Departments(emps, recs))

	case KindAttendance:
		dr, derr := NewDateRange(req.Start, req.End)
		if derr != nil {
			return nil, derr
		}
		recs, lerr := s.attendance.List(ctx)
		if lerr != nil {
			return nil, fmt.Errorf("load attendance: %w", lerr)
		}
		out, err = r.Attendance(Attendance(recs, dr), dr)

	case KindSalary:
		p, perr := NewSalaryPeriod(req.Month, req.Year, now)
		if perr != nil {
			return nil, perr
		}
		emps, lerr := s.employees.List(ctx)
		if lerr != nil {
			return nil, fmt.Errorf("load employees: %w", lerr)
		}
		recs, lerr := s.attendance.List(ctx)
		if lerr != nil {
			return nil, fmt.Errorf("load attendance: %w", lerr)
		}
		out, err = r.Salary(Salary(emps, recs, p), p)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, req.Kind)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRendering, req.Kind, req.Format, err)
	}
	return out, nil
}

// Invalidate drops every cached report. Called after any employee or
// attendance write.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WarnContext(ctx, "report cache invalidation failed", "err", err)
	}
}

// cacheKey only carries the parameters the kind actually uses.
func cacheKey(req Request) string {
	switch req.Kind {
	case KindAttendance:
		return utils.BuildReportCacheKey(string(req.Kind), string(req.Format),
			calendarDate(req.Start), calendarDate(req.End), 0, 0)
	case KindSalary:
		return utils.BuildReportCacheKey(string(req.Kind), string(req.Format),
			time.Time{}, time.Time{}, req.Month, req.Year)
	}
	return utils.BuildReportCacheKey(string(req.Kind), string(req.Format), time.Time{}, time.Time{}, 0, 0)
}

// Filename returns the download name without extension.
func Filename(req Request, now time.Time) string {
	switch req.Kind {
	case KindDirectory:
		return "employee-directory-" + now.Format("20060102")
	case KindDepartments:
		return "department-report-" + now.Format("20060102")
	case KindAttendance:
		return "attendance-report-" + req.Start.Format("20060102") + "-to-" + req.End.Format("20060102")
	case KindSalary:
		return fmt.Sprintf("salary-report-%d-%02d", req.Year, req.Month)
	}
	return "report"
}

// IsClientError reports whether err comes from a bad request rather than a
// failing collaborator.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrUnknownReport) ||
		errors.Is(err, ErrUnknownFormat)
}
