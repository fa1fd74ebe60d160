package report

import (
	"time"

	"github.com/shopspring/decimal"
)

type DirectoryRow struct {
	ID         int64
	Name       string
	Email      string
	Department string
	Phone      string
	Salary     int64
}

type DepartmentRow struct {
	Department    string
	EmployeeCount int
	AverageSalary decimal.Decimal
	PresentCount  int
	AbsentCount   int
}

// AttendanceRow.WorkingHours is nil when the record has no check-out.
type AttendanceRow struct {
	EmployeeName string
	Department   string
	Date         time.Time
	Status       string
	WorkingHours *time.Duration
}

type SalaryRow struct {
	EmployeeID    int64
	EmployeeName  string
	Department    string
	MonthlySalary int64
	WorkingDays   int
	DailySalary   decimal.Decimal
}
