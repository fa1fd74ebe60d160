package render

import (
	"fmt"

	"github.com/hrportal/hradmin/internal/report"
)

type rgb struct{ r, g, b int }

func (c rgb) hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.r, c.g, c.b)
}

var (
	lightBlue   = rgb{173, 216, 230}
	lightGreen  = rgb{144, 238, 144}
	lightYellow = rgb{255, 255, 224}
	lightCoral  = rgb{240, 128, 128}

	blueMedium   = rgb{33, 150, 243}
	greenMedium  = rgb{76, 175, 80}
	orangeMedium = rgb{255, 152, 0}
	redMedium    = rgb{244, 67, 54}

	greyDarken2  = rgb{97, 97, 97}
	greyLighten2 = rgb{224, 224, 224}
)

const (
	numFmtInt   = "#,##0"
	numFmtMoney = "#,##0.00"
)

type column struct {
	title string
	// pdfTitle overrides title in the narrower PDF layout.
	pdfTitle string
	// weight is the relative PDF column width.
	weight float64
	// excelWidth is the spreadsheet column width in characters.
	excelWidth float64
	numFmt     string
	alignRight bool
}

// cell carries the typed value written to spreadsheets and the text drawn in
// PDFs.
type cell struct {
	value any
	text  string
}

func textCell(s string) cell { return cell{value: s, text: s} }

// table is the format-neutral layout shared by both renderers.
type table struct {
	sheet      string
	title      string
	subtitle   string
	headerFill rgb
	titleColor rgb
	columns    []column
	rows       [][]cell
}

func directoryTable(rows []report.DirectoryRow) table {
	t := table{
		sheet:      "Employee Directory",
		title:      "Employee Directory Report",
		headerFill: lightBlue,
		titleColor: blueMedium,
		columns: []column{
			{title: "ID", weight: 0.6, excelWidth: 8},
			{title: "Name", weight: 2, excelWidth: 24},
			{title: "Email", weight: 2.6, excelWidth: 30},
			{title: "Department", weight: 1.5, excelWidth: 14},
			{title: "Phone", weight: 1.5, excelWidth: 16},
			{title: "Salary", weight: 1.3, excelWidth: 14, numFmt: numFmtInt, alignRight: true},
		},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []cell{
			{value: r.ID, text: fmt.Sprint(r.ID)},
			textCell(r.Name),
			textCell(r.Email),
			textCell(r.Department),
			textCell(r.Phone),
			{value: r.Salary, text: FormatInt(r.Salary)},
		})
	}
	return t
}

func departmentTable(rows []report.DepartmentRow) table {
	t := table{
		sheet:      "Department Report",
		title:      "Department Report",
		headerFill: lightGreen,
		titleColor: greenMedium,
		columns: []column{
			{title: "Department", weight: 2, excelWidth: 16},
			{title: "Employee Count", pdfTitle: "Employees", weight: 1.5, excelWidth: 16, alignRight: true},
			{title: "Average Salary", pdfTitle: "Avg Salary", weight: 2, excelWidth: 18, numFmt: numFmtMoney, alignRight: true},
			{title: "Present Count", pdfTitle: "Present", weight: 1.5, excelWidth: 15, alignRight: true},
			{title: "Absent Count", pdfTitle: "Absent", weight: 1.5, excelWidth: 15, alignRight: true},
		},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []cell{
			textCell(r.Department),
			{value: r.EmployeeCount, text: fmt.Sprint(r.EmployeeCount)},
			{value: r.AverageSalary.InexactFloat64(), text: FormatMoney(r.AverageSalary)},
			{value: r.PresentCount, text: fmt.Sprint(r.PresentCount)},
			{value: r.AbsentCount, text: fmt.Sprint(r.AbsentCount)},
		})
	}
	return t
}

func attendanceTable(rows []report.AttendanceRow, dr report.DateRange) table {
	t := table{
		sheet:      "Attendance Report",
		title:      "Attendance Report",
		subtitle:   "Period: " + FormatDate(dr.Start) + " to " + FormatDate(dr.End),
		headerFill: lightYellow,
		titleColor: orangeMedium,
		columns: []column{
			{title: "Employee Name", pdfTitle: "Employee", weight: 2, excelWidth: 24},
			{title: "Department", weight: 1.5, excelWidth: 14},
			{title: "Date", weight: 1.5, excelWidth: 12},
			{title: "Status", weight: 1.5, excelWidth: 10},
			{title: "Working Hours", pdfTitle: "Hours", weight: 1.5, excelWidth: 15, alignRight: true},
		},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []cell{
			textCell(r.EmployeeName),
			textCell(r.Department),
			textCell(FormatDate(r.Date)),
			textCell(r.Status),
			textCell(FormatHours(r.WorkingHours)),
		})
	}
	return t
}

func salaryTable(rows []report.SalaryRow, p report.SalaryPeriod) table {
	t := table{
		sheet:      "Salary Report",
		title:      "Salary Report",
		subtitle:   fmt.Sprintf("Month: %d/%d", int(p.Month), p.Year),
		headerFill: lightCoral,
		titleColor: redMedium,
		columns: []column{
			{title: "Employee Name", pdfTitle: "Employee", weight: 2, excelWidth: 24},
			{title: "Department", weight: 1.5, excelWidth: 14},
			{title: "Monthly Salary", pdfTitle: "Salary", weight: 1.5, excelWidth: 16, numFmt: numFmtInt, alignRight: true},
			{title: "Working Days", pdfTitle: "Days", weight: 1.2, excelWidth: 14, alignRight: true},
			{title: "Daily Salary", pdfTitle: "Daily Rate", weight: 1.5, excelWidth: 14, numFmt: numFmtMoney, alignRight: true},
		},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []cell{
			textCell(r.EmployeeName),
			textCell(r.Department),
			{value: r.MonthlySalary, text: FormatInt(r.MonthlySalary)},
			{value: r.WorkingDays, text: fmt.Sprint(r.WorkingDays)},
			{value: r.DailySalary.InexactFloat64(), text: FormatMoney(r.DailySalary)},
		})
	}
	return t
}
