package report

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/hrportal/hradmin/internal/domain/attendance"
	"github.com/hrportal/hradmin/internal/domain/employee"
)

// DaysPerSalaryMonth is the fixed divisor for the daily rate, independent of
// the real length of the month.
const DaysPerSalaryMonth = 30

var daysPerSalaryMonth = decimal.NewFromInt(DaysPerSalaryMonth)

// The functions below never modify their inputs and return rows in a stable
// order so identical snapshots always yield identical rows.

func Directory(emps []employee.Employee) []DirectoryRow {
	sorted := sortedByID(emps)

	rows := make([]DirectoryRow, 0, len(sorted))
	for _, e := range sorted {
		rows = append(rows, DirectoryRow{
			ID:         e.ID,
			Name:       e.Name,
			Email:      e.Email,
			Department: e.Department.String(),
			Phone:      e.PhoneNo,
			Salary:     e.Salary,
		})
	}
	return rows
}

type deptAcc struct {
	count   int
	total   int64
	present int
	absent  int
}

// Departments groups employees by department. Present/absent counts cover
// attendance records of that department's employees. Departments with no
// employees are left out.
func Departments(emps []employee.Employee, records []attendance.Record) []DepartmentRow {
	acc := make(map[employee.Department]*deptAcc)
	deptOf := make(map[int64]employee.Department, len(emps))

	for _, e := range emps {
		a, ok := acc[e.Department]
		if !ok {
			a = &deptAcc{}
			acc[e.Department] = a
		}
		a.count++
		a.total += e.Salary
		deptOf[e.ID] = e.Department
	}

	for _, r := range records {
		d, ok := deptOf[r.EmployeeID]
		if !ok {
			continue
		}
		switch r.Status {
		case attendance.StatusPresent:
			acc[d].present++
		case attendance.StatusAbsent:
			acc[d].absent++
		}
	}

	depts := make([]employee.Department, 0, len(acc))
	for d := range acc {
		depts = append(depts, d)
	}
	slices.Sort(depts)

	rows := make([]DepartmentRow, 0, len(depts))
	for _, d := range depts {
		a := acc[d]
		rows = append(rows, DepartmentRow{
			Department:    d.String(),
			EmployeeCount: a.count,
			AverageSalary: decimal.NewFromInt(a.total).Div(decimal.NewFromInt(int64(a.count))),
			PresentCount:  a.present,
			AbsentCount:   a.absent,
		})
	}
	return rows
}

// Attendance keeps records whose check-in date falls inside r. Working hours
// are check-out minus check-in and may be negative.
func Attendance(records []attendance.Record, r DateRange) []AttendanceRow {
	kept := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.CheckInTime) {
			kept = append(kept, rec)
		}
	}

	slices.SortStableFunc(kept, func(a, b attendance.Record) int {
		if c := a.CheckInTime.Compare(b.CheckInTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	rows := make([]AttendanceRow, 0, len(kept))
	for _, rec := range kept {
		row := AttendanceRow{
			EmployeeName: rec.EmployeeName(),
			Department:   rec.DepartmentName(),
			Date:         calendarDate(rec.CheckInTime),
			Status:       rec.Status.String(),
		}
		if rec.CheckOutTime != nil {
			d := rec.CheckOutTime.Sub(rec.CheckInTime)
			row.WorkingHours = &d
		}
		rows = append(rows, row)
	}
	return rows
}

// Salary emits one row per employee. WorkingDays counts Present records with
// check-in inside p.
func Salary(emps []employee.Employee, records []attendance.Record, p SalaryPeriod) []SalaryRow {
	present := make(map[int64]int)
	for _, r := range records {
		if r.Status == attendance.StatusPresent && p.Contains(r.CheckInTime) {
			present[r.EmployeeID]++
		}
	}

	sorted := sortedByID(emps)

	rows := make([]SalaryRow, 0, len(sorted))
	for _, e := range sorted {
		rows = append(rows, SalaryRow{
			EmployeeID:    e.ID,
			EmployeeName:  e.Name,
			Department:    e.Department.String(),
			MonthlySalary: e.Salary,
			WorkingDays:   present[e.ID],
			DailySalary:   DailySalary(e.Salary),
		})
	}
	return rows
}

func DailySalary(monthly int64) decimal.Decimal {
	return decimal.NewFromInt(monthly).Div(daysPerSalaryMonth)
}

func sortedByID(emps []employee.Employee) []employee.Employee {
	out := slices.Clone(emps)
	slices.SortStableFunc(out, func(a, b employee.Employee) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
