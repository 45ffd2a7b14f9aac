package rostersvc

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/student"
)

const (
	SheetName   = "Students"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// columns, in sheet order
var header = []string{"Name", "Email", "Degree", "Department", "Year", "Course"}

var ErrEmptySheet = errors.New("roster file does not contain any sheet")

// Export writes the records as a single-sheet workbook.
func Export(w io.Writer, recs []student.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &row); err != nil {
		return errors.Wrap(err, "writing header")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	if err = f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return errors.Wrap(err, "styling header")
	}

	for i, rec := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "locating row")
		}
		row := []interface{}{rec.Name, rec.Email, rec.Degree, rec.Department, rec.Year, rec.Course}
		if err = f.SetSheetRow(SheetName, cell, &row); err != nil {
			return errors.Wrapf(err, "writing row %d", i+2)
		}
	}
	if err = f.SetColWidth(SheetName, "A", "F", 22); err != nil {
		return errors.Wrap(err, "sizing columns")
	}

	return errors.Wrap(f.Write(w), "writing workbook")
}

// Import reads student forms from the first sheet of a workbook laid out like Export's.
// Rows without a name are skipped.
func Import(r io.Reader) ([]student.Form, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %s", sheet)
	}

	forms := make([]student.Form, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		cell := func(col int) string {
			if col < len(row) {
				return core.CleanString(row[col])
			}
			return ""
		}
		if strings.TrimSpace(cell(0)) == "" {
			continue
		}
		forms = append(forms, student.Form{
			Name:       cell(0),
			Email:      cell(1),
			Degree:     cell(2),
			Department: cell(3),
			Year:       cell(4),
			Course:     cell(5),
		})
	}
	return forms, nil
}
