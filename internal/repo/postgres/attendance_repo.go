package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrportal/hradmin/internal/domain/attendance"
	"github.com/hrportal/hradmin/internal/domain/employee"
	"github.com/hrportal/hradmin/internal/observability"
)

// attendance rows are read joined with their employee; a missing employee
// leaves every e.* column NULL.
const attendanceSelect = `
	SELECT a.id, a.employee_id, a.check_in_time, a.check_out_time, a.status, a.created_at,
	       e.id, e.name, e.email, e.phone_no, e.salary, e.department, e.created_at, e.updated_at
	FROM attendance a
	LEFT JOIN employees e ON e.id = a.employee_id`

type AttendanceRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAttendanceRepo(pool *pgxpool.Pool, prom *observability.Prom) *AttendanceRepo {
	return &AttendanceRepo{pool: pool, prom: prom}
}

func (r *AttendanceRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	var status int16

	var (
		empID      *int64
		empName    *string
		empEmail   *string
		empPhone   *string
		empSalary  *int64
		empDept    *int16
		empCreated *time.Time
		empUpdated *time.Time
	)

	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.CheckInTime, &rec.CheckOutTime, &status, &rec.CreatedAt,
		&empID, &empName, &empEmail, &empPhone, &empSalary, &empDept, &empCreated, &empUpdated,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Status = attendance.Status(status)

	if empID != nil {
		e := employee.Employee{
			ID:         *empID,
			Name:       deref(empName),
			Email:      deref(empEmail),
			PhoneNo:    deref(empPhone),
			Department: employee.Department(deref(empDept)),
			Salary:     deref(empSalary),
			CreatedAt:  deref(empCreated),
			UpdatedAt:  deref(empUpdated),
		}
		rec.Employee = &e
	}

	return rec, nil
}

func (r *AttendanceRepo) List(ctx context.Context) ([]attendance.Record, error) {
	var rows pgx.Rows

	err := r.observe("attendance.list", func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx, attendanceSelect+` ORDER BY a.check_in_time ASC, a.id ASC`)
		return qerr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

func (r *AttendanceRepo) GetByID(ctx context.Context, id int64) (attendance.Record, error) {
	var rec attendance.Record

	err := r.observe("attendance.get_by_id", func() error {
		var scanErr error
		rec, scanErr = scanAttendance(r.pool.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrNotFound
		}
		return attendance.Record{}, err
	}
	return rec, nil
}

// Create inserts the record when its employee exists. The check and insert
// run in one statement so a concurrent delete cannot slip between them.
func (r *AttendanceRepo) Create(ctx context.Context, req attendance.CreateRequest) (attendance.Record, error) {
	rec := attendance.NewFromCreateRequest(req)

	err := r.observe("attendance.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO attendance (employee_id, check_in_time, check_out_time, status, created_at)
			 SELECT $1, $2, $3, $4, $5
			 WHERE EXISTS (SELECT 1 FROM employees WHERE id = $1)
			 RETURNING id`,
			rec.EmployeeID, rec.CheckInTime, rec.CheckOutTime, int16(rec.Status), rec.CreatedAt,
		).Scan(&rec.ID)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrEmployeeNotFound
		}
		return attendance.Record{}, err
	}

	return r.GetByID(ctx, rec.ID)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
