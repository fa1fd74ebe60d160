package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/hrportal/hradmin/internal/report"
)

const (
	pdfMarginMM  = 20.0
	pdfRowHeight = 8.0
	pdfFamily    = "Helvetica"
)

// PDF lays reports out as an A4 portrait table with a page footer.
type PDF struct {
	family   string
	fontSize float64
}

func NewPDF() *PDF {
	return &PDF{family: pdfFamily, fontSize: 11}
}

func (*PDF) ContentType() string { return "application/pdf" }
func (*PDF) Extension() string   { return "pdf" }

func (p *PDF) Directory(rows []report.DirectoryRow) ([]byte, error) {
	return p.write(directoryTable(rows))
}

func (p *PDF) Departments(rows []report.DepartmentRow) ([]byte, error) {
	return p.write(departmentTable(rows))
}

func (p *PDF) Attendance(rows []report.AttendanceRow, dr report.DateRange) ([]byte, error) {
	return p.write(attendanceTable(rows, dr))
}

func (p *PDF) Salary(rows []report.SalaryRow, sp report.SalaryPeriod) ([]byte, error) {
	return p.write(salaryTable(rows, sp))
}

func (p *PDF) write(t table) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pdfMarginMM, pdfMarginMM, pdfMarginMM)
	doc.SetAutoPageBreak(false, pdfMarginMM)
	doc.SetTitle(t.title, true)
	doc.AliasNbPages("{nb}")

	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont(p.family, "", 9)
		doc.SetTextColor(greyDarken2.r, greyDarken2.g, greyDarken2.b)
		doc.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})

	pageW, pageH := doc.GetPageSize()
	widths := columnWidths(t.columns, pageW-2*pdfMarginMM)
	bottom := pageH - pdfMarginMM

	doc.AddPage()
	p.heading(doc, t, tr)
	p.header(doc, t, widths, tr)

	doc.SetFont(p.family, "", p.fontSize)
	for _, row := range t.rows {
		if doc.GetY()+pdfRowHeight > bottom {
			doc.AddPage()
			p.header(doc, t, widths, tr)
			doc.SetFont(p.family, "", p.fontSize)
		}

		doc.SetDrawColor(greyLighten2.r, greyLighten2.g, greyLighten2.b)
		for i, c := range row {
			doc.CellFormat(widths[i], pdfRowHeight, tr(c.text), "B", 0, align(t.columns[i]), false, 0, "")
		}
		doc.Ln(-1)
	}

	if err := doc.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *PDF) heading(doc *fpdf.Fpdf, t table, tr func(string) string) {
	doc.SetFont(p.family, "B", 20)
	doc.SetTextColor(t.titleColor.r, t.titleColor.g, t.titleColor.b)
	doc.CellFormat(0, 10, tr(t.title), "", 1, "L", false, 0, "")

	if t.subtitle != "" {
		doc.SetFont(p.family, "", 12)
		doc.SetTextColor(greyDarken2.r, greyDarken2.g, greyDarken2.b)
		doc.CellFormat(0, 7, tr(t.subtitle), "", 1, "L", false, 0, "")
	}

	doc.SetTextColor(0, 0, 0)
	doc.Ln(6)
}

func (p *PDF) header(doc *fpdf.Fpdf, t table, widths []float64, tr func(string) string) {
	doc.SetFont(p.family, "B", p.fontSize)
	doc.SetDrawColor(0, 0, 0)
	for i, c := range t.columns {
		title := c.title
		if c.pdfTitle != "" {
			title = c.pdfTitle
		}
		doc.CellFormat(widths[i], pdfRowHeight, tr(title), "B", 0, align(c), false, 0, "")
	}
	doc.Ln(-1)
}

func columnWidths(cols []column, usable float64) []float64 {
	total := 0.0
	for _, c := range cols {
		total += c.weight
	}

	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = usable * c.weight / total
	}
	return out
}

func align(c column) string {
	if c.alignRight {
		return "R"
	}
	return "L"
}
