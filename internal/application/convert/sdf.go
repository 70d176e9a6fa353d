package convert

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/internal/infrastructure/chem/depict"
	"github.com/pkj0421/CIM/internal/infrastructure/chem/molfile"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
	"github.com/pkj0421/CIM/internal/infrastructure/tabular"
	"github.com/pkj0421/CIM/pkg/errors"
)

// SDFOptions selects the title and data items of a structure-data export.
type SDFOptions struct {
	// IDColumn is written as each record's title.  Empty uses the
	// configured ID column.
	IDColumn string
	// AutoProperties writes every column except the ID and Smiles columns.
	AutoProperties bool
	// Properties lists the columns to write when AutoProperties is false.
	Properties []string
}

// readSDF loads every parsable record.  Columns are ID (the title line),
// Smiles, then the data item names in first-seen order.
func (a *Adapter) readSDF(r io.Reader) (*table.Table, int, error) {
	idCol, smilesCol := a.convert.IDColumn, a.convert.SmilesColumn
	log := a.logger.Named("sdf")

	type record struct {
		id, smiles string
		data       map[string]string
	}
	var records []record
	var names []string
	seen := map[string]bool{idCol: true, smilesCol: true}
	skipped := 0

	rd := molfile.NewReader(r)
	for {
		e, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		m, err := e.Molecule()
		if err != nil {
			skipped++
			log.Warn("structure record skipped",
				logging.Int("index", e.Index),
				logging.String("id", e.Title),
				logging.Err(errors.Wrap(err, errors.ErrCodeRecordCanonicalizationFailure, "read structure record")))
			continue
		}
		rec := record{id: e.Title, smiles: a.toolkit.ToSMILES(m), data: map[string]string{}}
		for _, d := range e.Data {
			if d.Name == idCol || d.Name == smilesCol {
				continue
			}
			if !seen[d.Name] {
				seen[d.Name] = true
				names = append(names, d.Name)
			}
			rec.data[d.Name] = d.Value
		}
		records = append(records, rec)
	}

	t, err := table.New(append([]string{idCol, smilesCol}, names...)...)
	if err != nil {
		return nil, skipped, err
	}
	for _, rec := range records {
		row := make([]table.Value, 0, 2+len(names))
		row = append(row, table.Parse(rec.id), table.Str(rec.smiles))
		for _, n := range names {
			v, ok := rec.data[n]
			if !ok {
				row = append(row, table.Missing)
				continue
			}
			row = append(row, table.Parse(v))
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, skipped, err
		}
	}
	if skipped > 0 {
		log.Info("structure-data file loaded with skipped records",
			logging.Int("loaded", len(records)), logging.Int("skipped", skipped))
	}
	return t, skipped, nil
}

// sdfProperties resolves the data item columns for opts.
func (a *Adapter) sdfProperties(idCol string, opts SDFOptions) ([]string, error) {
	if opts.AutoProperties {
		var props []string
		for _, c := range a.table.Columns() {
			if c != idCol && c != a.convert.SmilesColumn {
				props = append(props, c)
			}
		}
		return props, nil
	}
	for _, p := range opts.Properties {
		if !a.table.HasColumn(p) {
			return nil, errors.MissingColumn(p)
		}
	}
	return opts.Properties, nil
}

// ExportStructureFile writes <dir>/<name>.sdf with one record per row.  A
// row whose structure cannot be parsed is skipped and logged.
func (a *Adapter) ExportStructureFile(opts SDFOptions) (string, error) {
	idCol := opts.IDColumn
	if idCol == "" {
		idCol = a.convert.IDColumn
	}
	path := a.outputPath(tabular.FormatSDF.Extension())
	written := 0
	err := a.export(tabular.FormatSDF, func() (int, error) {
		for _, c := range []string{a.convert.SmilesColumn, idCol} {
			if !a.table.HasColumn(c) {
				return 0, errors.MissingColumn(c)
			}
		}
		props, err := a.sdfProperties(idCol, opts)
		if err != nil {
			return 0, err
		}

		var buf bytes.Buffer
		w := molfile.NewWriter(&buf)
		log := a.logger.Named("sdf")
		for i := 0; i < a.table.Len(); i++ {
			smiles, _ := a.table.Cell(i, a.convert.SmilesColumn)
			id, _ := a.table.Cell(i, idCol)
			m, err := a.toolkit.Parse(smiles.String())
			if err == nil {
				err = w.Write(molfile.Record{
					Title:    id.String(),
					Molecule: m,
					Coords:   depict.Layout(m),
					Data:     a.dataItems(i, props),
				})
			}
			if err != nil {
				log.Warn("structure record not written",
					logging.Int("index", i), logging.String("id", id.String()), logging.Err(err))
				continue
			}
			written++
		}
		if err := w.Flush(); err != nil {
			return 0, err
		}
		return written, writeFile(path, buf.Bytes())
	})
	if err != nil {
		return "", err
	}
	a.confirm("sdf")
	return path, nil
}

func (a *Adapter) dataItems(row int, props []string) []molfile.DataItem {
	items := make([]molfile.DataItem, 0, len(props))
	for _, p := range props {
		v, _ := a.table.Cell(row, p)
		items = append(items, molfile.DataItem{Name: p, Value: v.String()})
	}
	return items
}

// writeFile creates path, tolerating an existing parent directory.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeFileSystemError, "create output directory").WithDetail("path=" + path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "write output file").WithDetail("path=" + path)
	}
	return nil
}

//Personal.AI order the ending
