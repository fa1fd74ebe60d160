package attendance

import (
	"errors"
	"time"

	"github.com/hrportal/hradmin/internal/domain/employee"
)

const UnknownEmployee = "Unknown"

// Record is one attendance row. Employee is resolved by the store when the
// record is read; it stays nil when the referenced employee no longer exists.
type Record struct {
	ID           int64              `json:"id"`
	EmployeeID   int64              `json:"employeeId"`
	Employee     *employee.Employee `json:"-"`
	CheckInTime  time.Time          `json:"checkInTime"`
	CheckOutTime *time.Time         `json:"checkOutTime,omitempty"`
	Status       Status             `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

var (
	ErrNotFound         = errors.New("attendance record not found")
	ErrEmployeeNotFound = errors.New("referenced employee not found")
)

type CreateRequest struct {
	EmployeeID   int64      `json:"employeeId" binding:"required,min=1"`
	CheckInTime  time.Time  `json:"checkInTime" binding:"required"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	Status       Status     `json:"status" binding:"required,attendance_status"`
}

func NewFromCreateRequest(req CreateRequest) Record {
	return Record{
		EmployeeID:   req.EmployeeID,
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
		Status:       req.Status,
		CreatedAt:    time.Now().UTC(),
	}
}

// EmployeeName returns the resolved employee's name or "Unknown".
func (r Record) EmployeeName() string {
	if r.Employee == nil {
		return UnknownEmployee
	}
	return r.Employee.Name
}

// DepartmentName returns the resolved employee's department or "Unknown".
func (r Record) DepartmentName() string {
	if r.Employee == nil {
		return UnknownEmployee
	}
	return r.Employee.Department.String()
}

// Response is the API view of a record, flattened with the employee fields.
type Response struct {
	ID           int64      `json:"id"`
	EmployeeID   int64      `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	Department   string     `json:"department"`
	CheckInTime  time.Time  `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	Status       string     `json:"status"`
}

func (r Record) ToResponse() Response {
	return Response{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName(),
		Department:   r.DepartmentName(),
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		Status:       r.Status.String(),
	}
}
