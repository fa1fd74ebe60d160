package render

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hrportal/hradmin/internal/report"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Excel writes one workbook per report with a single styled sheet.
type Excel struct{}

func NewExcel() *Excel {
	return &Excel{}
}

func (*Excel) ContentType() string { return excelContentType }
func (*Excel) Extension() string   { return "xlsx" }

func (e *Excel) Directory(rows []report.DirectoryRow) ([]byte, error) {
	return e.write(directoryTable(rows))
}

func (e *Excel) Departments(rows []report.DepartmentRow) ([]byte, error) {
	return e.write(departmentTable(rows))
}

func (e *Excel) Attendance(rows []report.AttendanceRow, dr report.DateRange) ([]byte, error) {
	return e.write(attendanceTable(rows, dr))
}

func (e *Excel) Salary(rows []report.SalaryRow, p report.SalaryPeriod) ([]byte, error) {
	return e.write(salaryTable(rows, p))
}

func (e *Excel) write(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.sheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{t.headerFill.hex()}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, c := range t.columns {
		col := colName(i)
		if err := f.SetCellValue(sheet, cellRef(col, 1), c.title); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, c.excelWidth); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", cellRef(colName(len(t.columns)-1), 1), headerStyle); err != nil {
		return nil, err
	}

	for r, values := range t.rows {
		for i, v := range values {
			if err := f.SetCellValue(sheet, cellRef(colName(i), r+2), v.value); err != nil {
				return nil, err
			}
		}
	}

	if len(t.rows) > 0 {
		if err := applyNumberFormats(f, t); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func applyNumberFormats(f *excelize.File, t table) error {
	styles := map[string]int{}
	last := len(t.rows) + 1

	for i, c := range t.columns {
		if c.numFmt == "" {
			continue
		}

		id, ok := styles[c.numFmt]
		if !ok {
			format := c.numFmt
			var err error
			id, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format})
			if err != nil {
				return fmt.Errorf("number style %q: %w", format, err)
			}
			styles[c.numFmt] = id
		}

		col := colName(i)
		if err := f.SetCellStyle(t.sheet, cellRef(col, 2), cellRef(col, last), id); err != nil {
			return err
		}
	}
	return nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cellRef(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
