package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/hrportal/hradmin/internal/domain/attendance"
	"github.com/hrportal/hradmin/internal/domain/employee"
)

// AttendanceRepo resolves employees from emps on every read, so records of
// deleted employees come back with a nil Employee.
type AttendanceRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]attendance.Record
	emps   *EmployeesRepo
}

func NewAttendanceRepo(emps *EmployeesRepo) *AttendanceRepo {
	return &AttendanceRepo{items: make(map[int64]attendance.Record), emps: emps}
}

func (r *AttendanceRepo) resolve(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	e, err := r.emps.GetByID(ctx, rec.EmployeeID)
	switch {
	case err == nil:
		rec.Employee = &e
	case errors.Is(err, employee.ErrNotFound):
		rec.Employee = nil
	default:
		return attendance.Record{}, err
	}
	return rec, nil
}

func (r *AttendanceRepo) List(ctx context.Context) ([]attendance.Record, error) {
	r.mu.RLock()
	out := make([]attendance.Record, 0, len(r.items))
	for _, rec := range r.items {
		out = append(out, rec)
	}
	r.mu.RUnlock()

	for i := range out {
		rec, err := r.resolve(ctx, out[i])
		if err != nil {
			return nil, err
		}
		out[i] = rec
	}

	slices.SortFunc(out, func(a, b attendance.Record) int {
		if c := a.CheckInTime.Compare(b.CheckInTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *AttendanceRepo) GetByID(ctx context.Context, id int64) (attendance.Record, error) {
	r.mu.RLock()
	rec, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return attendance.Record{}, attendance.ErrNotFound
	}
	return r.resolve(ctx, rec)
}

func (r *AttendanceRepo) Create(ctx context.Context, req attendance.CreateRequest) (attendance.Record, error) {
	exists, err := r.emps.Exists(ctx, req.EmployeeID)
	if err != nil {
		return attendance.Record{}, err
	}
	if !exists {
		return attendance.Record{}, attendance.ErrEmployeeNotFound
	}

	rec := attendance.NewFromCreateRequest(req)

	r.mu.Lock()
	r.nextID++
	rec.ID = r.nextID
	r.items[rec.ID] = rec
	r.mu.Unlock()

	return r.resolve(ctx, rec)
}
