// Package export renders portal records as Excel workbooks.
package export

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/alfurqan/portal/core/academic"
	"github.com/alfurqan/portal/core/payroll"
	"github.com/alfurqan/portal/core/user"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxColWidth = 60
	minColWidth = 10
)

// Names resolves user IDs to display names and unique IDs.
type Names map[string]user.User

func (n Names) name(id string) string {
	if u, ok := n[id]; ok {
		return u.FullName()
	}
	return ""
}

func (n Names) uniqueID(id string) string {
	if u, ok := n[id]; ok {
		return u.UniqueID
	}
	return ""
}

// SubjectNames maps subject IDs to subject names.
type SubjectNames map[string]string

// ResultsWorkbook lays out one row per result.
func ResultsWorkbook(results []academic.Result, students Names, subjects SubjectNames) (*bytes.Buffer, error) {
	header := []string{"Student ID", "Student", "Subject", "Academic Year", "Term", "Test", "Exam", "Total", "Grade", "Remarks"}
	rows := make([][]interface{}, 0, len(results))
	for _, r := range results {
		remarks := ""
		if r.Remarks != nil {
			remarks = *r.Remarks
		}
		rows = append(rows, []interface{}{
			students.uniqueID(r.StudentID), students.name(r.StudentID), subjects[r.SubjectID],
			r.AcademicYear, string(r.Term), r.TestScore, r.ExamScore, r.TotalScore, r.Grade, remarks,
		})
	}
	return workbook("Results", header, rows)
}

// PayrollWorkbook lays out one row per payroll record.
func PayrollWorkbook(records []payroll.Record, staff Names) (*bytes.Buffer, error) {
	header := []string{"Staff ID", "Staff", "Month", "Year", "Amount", "Status", "Processed At"}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		processedAt := ""
		if r.ProcessedAt != nil {
			processedAt = r.ProcessedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []interface{}{
			staff.uniqueID(r.StaffID), staff.name(r.StaffID), r.Month, r.Year, r.Amount, string(r.Status), processedAt,
		})
	}
	return workbook("Payroll", header, rows)
}

func workbook(sheet string, header []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, errors.Wrap(err, "renaming sheet")
	}
	for c, h := range header {
		if err := f.SetCellStr(sheet, cellName(c+1, 1), h); err != nil {
			return nil, errors.Wrap(err, "writing header")
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if err := f.SetCellValue(sheet, cellName(c+1, r+2), v); err != nil {
				return nil, errors.Wrap(err, "writing row")
			}
		}
	}
	if err := applyDefaultFormatting(f, sheet, len(header)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "rendering workbook")
	}
	return buf, nil
}

// applyDefaultFormatting makes the header bold, adds a filter on it and sizes the columns to their content.
func applyDefaultFormatting(f *excelize.File, sheet string, cols int) error {
	if cols == 0 {
		return nil
	}
	last := columnName(cols)
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	if err = f.SetCellStyle(sheet, "A1", last+"1", style); err != nil {
		return errors.Wrap(err, "styling header")
	}
	if err = f.AutoFilter(sheet, fmt.Sprintf("A1:%s1", last), nil); err != nil {
		return errors.Wrap(err, "adding filter")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return errors.Wrap(err, "reading rows")
	}
	widths := make([]float64, cols)
	for i := range widths {
		widths[i] = minColWidth
	}
	for r, row := range rows {
		for c := 0; c < cols && c < len(row); c++ {
			w := float64(utf8.RuneCountInString(row[c])) * 1.1
			if r == 0 {
				w += 1.5
			}
			if w > maxColWidth {
				w = maxColWidth
			}
			if w > widths[c] {
				widths[c] = w
			}
		}
	}
	for i, w := range widths {
		col := columnName(i + 1)
		if err = f.SetColWidth(sheet, col, col, w); err != nil {
			return errors.Wrap(err, "sizing column")
		}
	}
	return nil
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnName(col), row)
}

// columnName converts a 1-based column index to its letters (1 -> A, 27 -> AA).
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
