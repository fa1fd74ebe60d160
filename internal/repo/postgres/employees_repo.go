package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrportal/hradmin/internal/domain/employee"
	"github.com/hrportal/hradmin/internal/observability"
)

const employeeColumns = `id, name, email, phone_no, salary, department, created_at, updated_at`

type EmployeesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEmployeesRepo(pool *pgxpool.Pool, prom *observability.Prom) *EmployeesRepo {
	return &EmployeesRepo{pool: pool, prom: prom}
}

func (r *EmployeesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var dept int16

	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.PhoneNo, &e.Salary, &dept, &e.CreatedAt, &e.UpdatedAt)
	e.Department = employee.Department(dept)
	return e, err
}

func (r *EmployeesRepo) List(ctx context.Context) ([]employee.Employee, error) {
	var rows pgx.Rows

	err := r.observe("employees.list", func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id ASC`)
		return qerr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *EmployeesRepo) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	var e employee.Employee

	err := r.observe("employees.get_by_id", func() error {
		var scanErr error
		e, scanErr = scanEmployee(r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *EmployeesRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.observe("employees.exists", func() error {
		return r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`, id).Scan(&ok)
	})
	return ok, err
}

func (r *EmployeesRepo) Create(ctx context.Context, req employee.UpsertRequest) (employee.Employee, error) {
	e := employee.NewFromRequest(req)

	err := r.observe("employees.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO employees (name, email, phone_no, salary, department, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			e.Name, e.Email, e.PhoneNo, e.Salary, int16(e.Department), e.CreatedAt, e.UpdatedAt,
		).Scan(&e.ID)
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *EmployeesRepo) Update(ctx context.Context, id int64, req employee.UpsertRequest) (employee.Employee, error) {
	var e employee.Employee

	err := r.observe("employees.update", func() error {
		var scanErr error
		e, scanErr = scanEmployee(r.pool.QueryRow(ctx,
			`UPDATE employees
			 SET name = $2, email = $3, phone_no = $4, salary = $5, department = $6, updated_at = $7
			 WHERE id = $1
			 RETURNING `+employeeColumns,
			id, req.Name, req.Email, req.PhoneNo, req.Salary, int16(req.Department), time.Now().UTC(),
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *EmployeesRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("employees.delete", func() error {
		var execErr error
		tag, execErr = r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
		return execErr
	})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return employee.ErrNotFound
	}
	return nil
}
