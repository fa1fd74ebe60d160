package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrportal/hradmin/internal/domain/attendance"
	"github.com/hrportal/hradmin/internal/domain/employee"
	"github.com/hrportal/hradmin/internal/http/handlers"
)

type fakeAttendance struct {
	listFn   func(ctx context.Context) ([]attendance.Record, error)
	getFn    func(ctx context.Context, id int64) (attendance.Record, error)
	createFn func(ctx context.Context, req attendance.CreateRequest) (attendance.Record, error)
}

func (f *fakeAttendance) List(ctx context.Context) ([]attendance.Record, error) {
	return f.listFn(ctx)
}

func (f *fakeAttendance) GetByID(ctx context.Context, id int64) (attendance.Record, error) {
	return f.getFn(ctx, id)
}

func (f *fakeAttendance) Create(ctx context.Context, req attendance.CreateRequest) (attendance.Record, error) {
	return f.createFn(ctx, req)
}

func attendanceRouter(repo handlers.AttendanceStore, inv handlers.ReportInvalidator) *gin.Engine {
	h := handlers.NewAttendanceHandler(repo, inv)
	r := gin.New()
	r.GET("/api/Attendance", h.List)
	r.GET("/api/Attendance/:id", h.Get)
	r.POST("/api/Attendance", h.Create)
	return r
}

func TestAttendance_ListFlattensEmployee(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	repo := &fakeAttendance{listFn: func(context.Context) ([]attendance.Record, error) {
		return []attendance.Record{
			{ID: 1, EmployeeID: 1, Employee: &employee.Employee{ID: 1, Name: "Ada", Department: employee.DepartmentIT}, CheckInTime: in, Status: attendance.StatusPresent},
			{ID: 2, EmployeeID: 99, CheckInTime: in, Status: attendance.StatusLeave},
		}, nil
	}}

	w := doRequest(attendanceRouter(repo, nil), http.MethodGet, "/api/Attendance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}

	var got []attendance.Response
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].EmployeeName != "Ada" || got[0].Department != "IT" || got[0].Status != "Present" {
		t.Fatalf("unexpected first record %+v", got[0])
	}
	if got[1].EmployeeName != "Unknown" || got[1].Department != "Unknown" {
		t.Fatalf("deleted employee should read Unknown, got %+v", got[1])
	}
}

func TestAttendance_ListStorageFailure(t *testing.T) {
	repo := &fakeAttendance{listFn: func(context.Context) ([]attendance.Record, error) {
		return nil, errors.New("connection reset")
	}}

	w := doRequest(attendanceRouter(repo, nil), http.MethodGet, "/api/Attendance", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", w.Code)
	}
	env := decodeError(t, w)
	if env.Error.Details["reason"] != "connection reset" {
		t.Fatalf("expected underlying reason in details, got %v", env.Error.Details)
	}
}

func TestAttendance_Create(t *testing.T) {
	body := `{"employeeId":1,"checkInTime":"2026-03-02T09:00:00Z","checkOutTime":"2026-03-02T17:30:00Z","status":"Present"}`

	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantInval int
	}{
		{name: "created", wantCode: http.StatusCreated, wantInval: 1},
		{name: "missing_employee", err: attendance.ErrEmployeeNotFound, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &countingInvalidator{}
			repo := &fakeAttendance{createFn: func(_ context.Context, req attendance.CreateRequest) (attendance.Record, error) {
				if tt.err != nil {
					return attendance.Record{}, tt.err
				}
				rec := attendance.NewFromCreateRequest(req)
				rec.ID = 11
				return rec, nil
			}}

			w := doRequest(attendanceRouter(repo, inv), http.MethodPost, "/api/Attendance", body)
			if w.Code != tt.wantCode {
				t.Fatalf("status %d, want %d body=%s", w.Code, tt.wantCode, w.Body.String())
			}
			if inv.n != tt.wantInval {
				t.Fatalf("invalidations %d, want %d", inv.n, tt.wantInval)
			}
			if tt.wantCode == http.StatusCreated && w.Header().Get("Location") != "/api/Attendance/11" {
				t.Fatalf("Location %q", w.Header().Get("Location"))
			}
		})
	}
}

func TestAttendance_CreateRejectsUnknownStatusCode(t *testing.T) {
	repo := &fakeAttendance{createFn: func(context.Context, attendance.CreateRequest) (attendance.Record, error) {
		t.Fatalf("store must not be called")
		return attendance.Record{}, nil
	}}

	w := doRequest(attendanceRouter(repo, nil), http.MethodPost, "/api/Attendance", `{"employeeId":1,"checkInTime":"2026-03-02T09:00:00Z","status":9}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestAttendance_GetNotFound(t *testing.T) {
	repo := &fakeAttendance{getFn: func(context.Context, int64) (attendance.Record, error) {
		return attendance.Record{}, attendance.ErrNotFound
	}}

	w := doRequest(attendanceRouter(repo, nil), http.MethodGet, "/api/Attendance/5", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
}
