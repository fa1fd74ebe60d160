package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hrportal/hradmin/internal/auth"
	"github.com/hrportal/hradmin/internal/domain/attendance"
	"github.com/hrportal/hradmin/internal/domain/employee"
	"github.com/hrportal/hradmin/internal/domain/job"
)

func TestUsersRepo_Duplicates(t *testing.T) {
	r := NewUsersRepo()
	ctx := context.Background()

	if _, err := r.Create(ctx, "alice", "alice@example.com", "d"); err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name     string
		username string
		email    string
		want     error
	}{
		{name: "same_username", username: "alice", email: "x@example.com", want: auth.ErrDuplicateUsername},
		{name: "same_email", username: "bob", email: "alice@example.com", want: auth.ErrDuplicateEmail},
		{name: "both_same_reports_username", username: "alice", email: "alice@example.com", want: auth.ErrDuplicateUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Create(ctx, tt.username, tt.email, "d"); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if ok, _ := r.UsernameExists(ctx, "alice"); !ok {
		t.Fatalf("expected alice to exist")
	}
	if ok, _ := r.EmailExists(ctx, "nobody@example.com"); ok {
		t.Fatalf("unexpected email match")
	}
	if _, err := r.GetByUsername(ctx, "nobody"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func newEmployee(t *testing.T, r *EmployeesRepo, name string, dept employee.Department) employee.Employee {
	t.Helper()
	e, err := r.Create(context.Background(), employee.UpsertRequest{
		Name: name, Email: name + "@example.com", PhoneNo: "555-0100", Salary: 3000, Department: dept,
	})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return e
}

func TestEmployeesRepo_CRUD(t *testing.T) {
	r := NewEmployeesRepo()
	ctx := context.Background()

	a := newEmployee(t, r, "ada", employee.DepartmentIT)
	b := newEmployee(t, r, "bob", employee.DepartmentHR)
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected sequential ids, got %d %d", a.ID, b.ID)
	}

	updated, err := r.Update(ctx, a.ID, employee.UpsertRequest{Name: "Ada L", Email: "ada@example.com", PhoneNo: "555", Salary: 4000, Department: employee.DepartmentFinance})
	if err != nil || updated.Salary != 4000 || updated.Department != employee.DepartmentFinance {
		t.Fatalf("update: %+v %v", updated, err)
	}
	if _, err := r.Update(ctx, 99, employee.UpsertRequest{}); !errors.Is(err, employee.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := r.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Delete(ctx, b.ID); !errors.Is(err, employee.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, _ := r.List(ctx)
	if len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestAttendanceRepo_ResolvesEmployees(t *testing.T) {
	emps := NewEmployeesRepo()
	r := NewAttendanceRepo(emps)
	ctx := context.Background()

	e := newEmployee(t, emps, "ada", employee.DepartmentIT)
	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	later, err := r.Create(ctx, attendance.CreateRequest{EmployeeID: e.ID, CheckInTime: day.Add(24 * time.Hour), Status: attendance.StatusPresent})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	earlier, err := r.Create(ctx, attendance.CreateRequest{EmployeeID: e.ID, CheckInTime: day, Status: attendance.StatusAbsent})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if later.EmployeeName() != "ada" {
		t.Fatalf("expected resolved employee, got %q", later.EmployeeName())
	}

	if _, err := r.Create(ctx, attendance.CreateRequest{EmployeeID: 42, CheckInTime: day, Status: attendance.StatusPresent}); !errors.Is(err, attendance.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := emps.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete employee: %v", err)
	}

	list, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != earlier.ID {
		t.Fatalf("expected check-in ordering, got %+v", list)
	}
	if list[0].EmployeeName() != attendance.UnknownEmployee || list[0].DepartmentName() != attendance.UnknownEmployee {
		t.Fatalf("expected Unknown for deleted employee, got %q/%q", list[0].EmployeeName(), list[0].DepartmentName())
	}

	if _, err := r.GetByID(ctx, 99); !errors.Is(err, attendance.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobsRepo_ClaimOrderAndRetry(t *testing.T) {
	r := NewJobsRepo()
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	low, _ := r.Create(ctx, job.CreateRequest{Type: "report.email", RunAt: now.Add(-time.Minute)})
	high, _ := r.Create(ctx, job.CreateRequest{Type: "report.email", RunAt: now, Priority: 10})
	_, _ = r.Create(ctx, job.CreateRequest{Type: "report.email", RunAt: now.Add(time.Hour)})

	key := "req-1"
	first, _ := r.Create(ctx, job.CreateRequest{Type: "report.email", RunAt: now.Add(time.Hour), IdempotencyKey: &key})
	again, _ := r.Create(ctx, job.CreateRequest{Type: "report.email", IdempotencyKey: &key})
	if first.ID != again.ID {
		t.Fatalf("expected idempotent create")
	}

	got, err := r.ClaimNext(ctx, "w1")
	if err != nil || got.ID != high.ID {
		t.Fatalf("expected high priority job first, got %+v %v", got, err)
	}
	got, err = r.ClaimNext(ctx, "w1")
	if err != nil || got.ID != low.ID {
		t.Fatalf("expected low priority job second, got %+v %v", got, err)
	}
	if _, err := r.ClaimNext(ctx, "w1"); !errors.Is(err, job.ErrJobNotFound) {
		t.Fatalf("future jobs must not be claimed, got %v", err)
	}

	if err := r.MarkFailed(ctx, low.ID, "boom"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if _, err := r.Retry(ctx, high.ID); !errors.Is(err, job.ErrJobNotFailed) {
		t.Fatalf("expected ErrJobNotFailed, got %v", err)
	}
	retried, err := r.Retry(ctx, low.ID)
	if err != nil || retried.Status != job.StatusPending || retried.Attempts != 0 {
		t.Fatalf("retry: %+v %v", retried, err)
	}

	now = now.Add(10 * time.Minute)
	n, _ := r.RequeueStaleProcessing(ctx, 5*time.Minute)
	if n != 1 {
		t.Fatalf("expected the abandoned high priority job to be requeued, got %d", n)
	}
}
