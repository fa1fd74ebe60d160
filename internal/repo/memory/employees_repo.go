package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hrportal/hradmin/internal/domain/employee"
)

type EmployeesRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]employee.Employee
}

func NewEmployeesRepo() *EmployeesRepo {
	return &EmployeesRepo{items: make(map[int64]employee.Employee)}
}

func (r *EmployeesRepo) List(context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]employee.Employee, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b employee.Employee) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *EmployeesRepo) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	return e, nil
}

func (r *EmployeesRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	_, ok := r.items[id]
	r.mu.RUnlock()
	return ok, nil
}

func (r *EmployeesRepo) Create(_ context.Context, req employee.UpsertRequest) (employee.Employee, error) {
	e := employee.NewFromRequest(req)

	r.mu.Lock()
	r.nextID++
	e.ID = r.nextID
	r.items[e.ID] = e
	r.mu.Unlock()

	return e, nil
}

func (r *EmployeesRepo) Update(_ context.Context, id int64, req employee.UpsertRequest) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}

	e.Name = req.Name
	e.Email = req.Email
	e.PhoneNo = req.PhoneNo
	e.Salary = req.Salary
	e.Department = req.Department
	e.UpdatedAt = time.Now().UTC()

	r.items[id] = e
	return e, nil
}

func (r *EmployeesRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return employee.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
