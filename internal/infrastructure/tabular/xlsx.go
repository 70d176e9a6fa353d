package tabular

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/pkg/errors"
)

// DefaultSheet is the worksheet exports are written to.
const DefaultSheet = "Sheet1"

// ReadXLSX reads the first worksheet of a workbook.  The first row is the
// header; empty trailing cells excel omits are read as Missing.
func ReadXLSX(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return table.New()
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "read worksheet").WithDetail("sheet=" + sheets[0])
	}
	if len(rows) == 0 {
		return table.New()
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	header := make([]string, width)
	copy(header, rows[0])
	t, err := table.New(table.NormalizeHeaders(header)...)
	if err != nil {
		return nil, err
	}
	for _, rec := range rows[1:] {
		if blankRow(rec) {
			continue
		}
		row := make([]table.Value, width)
		for i, cell := range rec {
			row[i] = table.Parse(cell)
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func blankRow(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}

// WriteXLSX writes t to a single-sheet workbook without a positional index.
// Cells that parse as finite numbers are stored as numbers.
func WriteXLSX(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, t.Width())
	for i, c := range t.Columns() {
		header[i] = c
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "write header")
	}
	for r := 0; r < t.Len(); r++ {
		values := t.Row(r)
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = cellValue(v)
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeExportFailed, "address row")
		}
		if err := f.SetSheetRow(DefaultSheet, axis, &cells); err != nil {
			return errors.Wrap(err, errors.ErrCodeExportFailed, "write row").WithDetailf("row=%d", r)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "write workbook")
	}
	return nil
}

func cellValue(v table.Value) interface{} {
	s, ok := v.Get()
	if !ok {
		return nil
	}
	if f, ok := v.Float(); ok {
		// keep text that would not survive a number round trip, such as
		// leading zeros
		if strconv.FormatFloat(f, 'f', -1, 64) == s {
			return f
		}
	}
	return s
}

//Personal.AI order the ending
