package tabular

import (
	"encoding/csv"
	"io"

	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/pkg/errors"
)

// Separators of the two delimited formats.
const (
	TabSeparator   = '\t'
	CommaSeparator = ','
)

// ReadDelimited reads a header row and data rows separated by sep.  Headers
// are normalized, missing-value markers become Missing and short rows are
// padded with Missing.  A row longer than the header is an error.
func ReadDelimited(r io.Reader, sep rune) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return table.New()
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "read header")
	}
	t, err := table.New(table.NormalizeHeaders(header)...)
	if err != nil {
		return nil, err
	}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "read row")
		}
		if len(rec) > t.Width() {
			return nil, errors.Newf(errors.ErrCodeLoadFailed, "line %d has %d fields, header has %d", line, len(rec), t.Width())
		}
		row := make([]table.Value, t.Width())
		for i, cell := range rec {
			row[i] = table.Parse(cell)
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, err
		}
	}
}

// WriteDelimited writes t with a header row.  Missing values are written as
// empty cells.
func WriteDelimited(w io.Writer, t *table.Table, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.Write(t.Columns()); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "write header")
	}
	if err := cw.WriteAll(t.Records()); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "write rows")
	}
	return nil
}

//Personal.AI order the ending
