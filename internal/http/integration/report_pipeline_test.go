package integration_test

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hrportal/hradmin/internal/app"
	"github.com/hrportal/hradmin/internal/domain/job"
)

func createEmployee(t *testing.T, a *testApp, token, body string) int64 {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/employees", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create employee: status %d body=%s", w.Code, w.Body.String())
	}

	var e struct {
		ID int64 `json:"id"`
	}
	decodeJSON(t, w, &e)
	return e.ID
}

func TestEmployeeAttendanceReportFlow(t *testing.T) {
	a := setupApp(t)
	token := a.login(t, "admin", "admin123")

	id := createEmployee(t, a, token, `{"name":"Ada Lovelace","email":"ada@example.com","phoneNo":"555-0100","salary":3000,"department":"IT"}`)

	att := `{"employeeId":` + strconv.FormatInt(id, 10) + `,"checkInTime":"2026-03-02T09:00:00Z","checkOutTime":"2026-03-02T17:30:00Z","status":"Present"}`
	if w := a.do(t, http.MethodPost, "/api/Attendance", token, att); w.Code != http.StatusCreated {
		t.Fatalf("create attendance: status %d body=%s", w.Code, w.Body.String())
	}

	orphan := `{"employeeId":999,"checkInTime":"2026-03-02T09:00:00Z","status":"Absent"}`
	if w := a.do(t, http.MethodPost, "/api/Attendance", token, orphan); w.Code != http.StatusNotFound {
		t.Fatalf("attendance for missing employee: status %d", w.Code)
	}

	w := a.do(t, http.MethodGet, "/api/Reports/departments/excel", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("department report: status %d body=%s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment; filename=department-report-") {
		t.Fatalf("Content-Disposition %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Department Report")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "IT" || rows[1][1] != "1" || rows[1][3] != "1" {
		t.Fatalf("unexpected department rows %v", rows)
	}

	// deleting the employee turns their attendance into "Unknown"
	if w := a.do(t, http.MethodDelete, "/api/employees/"+strconv.FormatInt(id, 10), token, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}

	w = a.do(t, http.MethodGet, "/api/Attendance", token, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"employeeName":"Unknown"`) {
		t.Fatalf("attendance after delete: status %d body=%s", w.Code, w.Body.String())
	}
}

func TestReportValidationAndRouting(t *testing.T) {
	a := setupApp(t)
	token := a.login(t, "admin", "admin123")

	tests := []struct {
		path     string
		wantCode int
	}{
		{path: "/api/Reports/salary/pdf?month=13&year=2024", wantCode: http.StatusBadRequest},
		{path: "/api/Reports/salary/pdf?month=3&year=1999", wantCode: http.StatusBadRequest},
		{path: "/api/Reports/attendance/pdf?startDate=2024-03-02&endDate=2024-03-01", wantCode: http.StatusBadRequest},
		{path: "/api/Reports/payroll/pdf", wantCode: http.StatusNotFound},
		{path: "/api/Reports/salary/pdf?month=3&year=2024", wantCode: http.StatusOK},
		{path: "/api/Reports/employee-directory/excel", wantCode: http.StatusOK},
		{path: "/api/Reports/attendance/pdf?startDate=2024-03-01&endDate=2024-03-31", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if w := a.do(t, http.MethodGet, tt.path, token, ""); w.Code != tt.wantCode {
				t.Fatalf("status %d, want %d body=%s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}

	w := a.do(t, http.MethodGet, "/api/Employees", token, "")
	if w.Code != http.StatusMovedPermanently || w.Header().Get("Location") != "/api/employees" {
		t.Fatalf("case-insensitive path: status %d location %q", w.Code, w.Header().Get("Location"))
	}
}

func TestReportEmailPipeline(t *testing.T) {
	a := setupApp(t)
	token := a.login(t, "admin", "admin123")
	createEmployee(t, a, token, `{"name":"Grace Hopper","email":"grace@example.com","phoneNo":"555-0199","salary":4500,"department":"Finance"}`)

	w := a.do(t, http.MethodPost, "/api/Reports/salary/excel/email?month=3&year=2024", token, `{"recipient":"hr@example.com"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("enqueue: status %d body=%s", w.Code, w.Body.String())
	}

	var view job.View
	decodeJSON(t, w, &view)
	if view.Status != job.StatusPending {
		t.Fatalf("expected pending job, got %+v", view)
	}

	mailer := &recordingMailer{}
	wk := app.NewWorker(a.cfg, a.storage.Jobs, a.reports, mailer, nil, a.log)

	processed, err := wk.ProcessOne(context.Background())
	if err != nil || !processed {
		t.Fatalf("process: processed=%v err=%v", processed, err)
	}

	sent := mailer.messages()
	if len(sent) != 1 {
		t.Fatalf("expected one e-mail, got %d", len(sent))
	}
	msg := sent[0]
	if msg.To != "hr@example.com" || len(msg.Attachments) != 1 {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.Attachments[0].Filename != "salary-report-2024-03.xlsx" {
		t.Fatalf("attachment %q", msg.Attachments[0].Filename)
	}

	w = a.do(t, http.MethodGet, "/api/jobs/"+view.ID, token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("job status: %d", w.Code)
	}
	decodeJSON(t, w, &view)
	if view.Status != job.StatusDone {
		t.Fatalf("expected done, got %s", view.Status)
	}

	if w := a.do(t, http.MethodPost, "/api/jobs/"+view.ID+"/retry", token, ""); w.Code != http.StatusConflict {
		t.Fatalf("retry of a done job: status %d", w.Code)
	}
}

func TestReportEmailFailureIsRetriedThenFails(t *testing.T) {
	a := setupApp(t)
	token := a.login(t, "admin", "admin123")

	w := a.do(t, http.MethodPost, "/api/Reports/employee-directory/pdf/email", token, `{"recipient":"hr@example.com"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("enqueue: status %d body=%s", w.Code, w.Body.String())
	}
	var view job.View
	decodeJSON(t, w, &view)

	mailer := &recordingMailer{err: context.DeadlineExceeded}
	wk := app.NewWorker(a.cfg, a.storage.Jobs, a.reports, mailer, nil, a.log)

	if _, err := wk.ProcessOne(context.Background()); err != nil {
		t.Fatalf("first attempt: %v", err)
	}

	j, err := a.storage.Jobs.GetByID(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if j.Status != job.StatusPending || j.Attempts != 1 || j.LastError == nil {
		t.Fatalf("expected rescheduled job, got %+v", j)
	}

	// backoff keeps the job out of reach for now
	processed, err := wk.ProcessOne(context.Background())
	if err != nil || processed {
		t.Fatalf("rescheduled job claimed early: processed=%v err=%v", processed, err)
	}
}
