package convert

import (
	"bytes"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
	"github.com/pkj0421/CIM/internal/infrastructure/tabular"
	"github.com/pkj0421/CIM/pkg/errors"
)

// DelimitedOptions configures delimited text export.
type DelimitedOptions struct {
	// Separator defaults to the configured delimiter.  A comma writes .csv,
	// anything else .txt.
	Separator rune
}

// ExportOptions gathers the inputs of every exporter for Export.
type ExportOptions struct {
	Delimited DelimitedOptions
	SDF       SDFOptions
	Image     ImageOptions
}

// Export dispatches to the exporter for format and returns the written
// paths.
func (a *Adapter) Export(format tabular.Format, opts ExportOptions) ([]string, error) {
	one := func(p string, err error) ([]string, error) {
		if err != nil {
			return nil, err
		}
		return []string{p}, nil
	}
	switch format {
	case tabular.FormatText:
		sep := a.separator(opts.Delimited.Separator)
		if sep == tabular.CommaSeparator {
			return nil, separatorMismatch(format, sep)
		}
		return one(a.ExportDelimited(DelimitedOptions{Separator: sep}))
	case tabular.FormatCSV:
		if sep := opts.Delimited.Separator; sep != 0 && sep != tabular.CommaSeparator {
			return nil, separatorMismatch(format, sep)
		}
		return one(a.ExportDelimited(DelimitedOptions{Separator: tabular.CommaSeparator}))
	case tabular.FormatXLSX:
		return one(a.ExportSpreadsheet())
	case tabular.FormatSDF:
		return one(a.ExportStructureFile(opts.SDF))
	case tabular.FormatPNG:
		return a.ExportImages(opts.Image)
	case tabular.FormatSMI:
		return one(a.ExportSMILES())
	case tabular.FormatParquet:
		return one(a.ExportParquet())
	case tabular.FormatJSON:
		return one(a.ExportJSON())
	}
	return nil, errors.UnsupportedFormat(format.String())
}

func separatorMismatch(format tabular.Format, sep rune) error {
	return errors.Newf(errors.ErrCodeInvalidExportOptions, "separator %q cannot be written as %s", sep, format).
		WithDetail("comma-separated output is written as csv")
}

func (a *Adapter) outputPath(ext string) string {
	return filepath.Join(a.OutputDir(), a.source.Name+ext)
}

// export runs one exporter, recording its outcome.  fn returns the number
// of rows written.
func (a *Adapter) export(format tabular.Format, fn func() (int, error)) error {
	start := time.Now()
	rows, err := fn()
	if err != nil && errors.GetCode(err) == errors.CodeUnknown {
		err = errors.Wrap(err, errors.ErrCodeExportFailed, "export "+format.String())
	}
	a.metrics.ObserveExport(format.String(), rows, err)
	if err != nil {
		a.logger.Error("export failed", logging.String("format", format.String()), logging.Err(err))
		return err
	}
	logging.LogOperationDuration(a.logger, "export", start,
		logging.String("format", format.String()), logging.Int("rows", rows))
	return nil
}

// separator resolves 0 to the configured delimiter.
func (a *Adapter) separator(sep rune) rune {
	if sep == 0 {
		sep, _ = utf8.DecodeRuneInString(a.convert.Delimiter)
	}
	return sep
}

// ExportDelimited writes <dir>/<name>.txt, or .csv for a comma separator,
// without a positional index.
func (a *Adapter) ExportDelimited(opts DelimitedOptions) (string, error) {
	sep := a.separator(opts.Separator)
	format, kind := tabular.FormatText, "text"
	if sep == tabular.CommaSeparator {
		format, kind = tabular.FormatCSV, "csv"
	}
	path := a.outputPath(format.Extension())
	err := a.export(format, func() (int, error) {
		var buf bytes.Buffer
		if err := tabular.WriteDelimited(&buf, a.table, sep); err != nil {
			return 0, err
		}
		return a.table.Len(), writeFile(path, buf.Bytes())
	})
	if err != nil {
		return "", err
	}
	a.confirm(kind)
	return path, nil
}

// ExportSpreadsheet writes <dir>/<name>.xlsx with a single Sheet1.
func (a *Adapter) ExportSpreadsheet() (string, error) {
	path := a.outputPath(tabular.FormatXLSX.Extension())
	err := a.export(tabular.FormatXLSX, func() (int, error) {
		var buf bytes.Buffer
		if err := tabular.WriteXLSX(&buf, a.table); err != nil {
			return 0, err
		}
		return a.table.Len(), writeFile(path, buf.Bytes())
	})
	if err != nil {
		return "", err
	}
	a.confirm("excel")
	return path, nil
}

// ExportSMILES writes <dir>/<name>.smi.  The configured ID column is used
// when present, the row index otherwise.
func (a *Adapter) ExportSMILES() (string, error) {
	path := a.outputPath(tabular.FormatSMI.Extension())
	err := a.export(tabular.FormatSMI, func() (int, error) {
		idCol := a.convert.IDColumn
		if !a.table.HasColumn(idCol) {
			idCol = ""
		}
		var buf bytes.Buffer
		skipped, err := tabular.WriteSMI(&buf, a.table, a.convert.SmilesColumn, idCol)
		if err != nil {
			return 0, err
		}
		if skipped > 0 {
			a.logger.Warn("rows without structure not written", logging.Int("skipped", skipped))
		}
		return a.table.Len() - skipped, writeFile(path, buf.Bytes())
	})
	if err != nil {
		return "", err
	}
	a.confirm("smiles")
	return path, nil
}

// ExportParquet writes <dir>/<name>.parquet.
func (a *Adapter) ExportParquet() (string, error) {
	path := a.outputPath(tabular.FormatParquet.Extension())
	err := a.export(tabular.FormatParquet, func() (int, error) {
		var buf bytes.Buffer
		if err := tabular.WriteParquet(&buf, a.table); err != nil {
			return 0, err
		}
		return a.table.Len(), writeFile(path, buf.Bytes())
	})
	if err != nil {
		return "", err
	}
	a.confirm("parquet")
	return path, nil
}

// ExportJSON writes <dir>/<name>.json.
func (a *Adapter) ExportJSON() (string, error) {
	path := a.outputPath(tabular.FormatJSON.Extension())
	err := a.export(tabular.FormatJSON, func() (int, error) {
		var buf bytes.Buffer
		if err := tabular.WriteJSON(&buf, a.table); err != nil {
			return 0, err
		}
		return a.table.Len(), writeFile(path, buf.Bytes())
	})
	if err != nil {
		return "", err
	}
	a.confirm("json")
	return path, nil
}

//Personal.AI order the ending
