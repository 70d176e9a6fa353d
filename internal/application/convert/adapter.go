// Package convert loads compound datasets from any supported file format
// into one canonical table and exports that table back to any format,
// including structure-data files and grid images.
//
// Every load rewrites the Smiles column through canonicalization exactly
// once, so two files describing the same compounds with different SMILES
// spellings yield identical tables.  Structure records that cannot be read
// are logged and skipped; whole-operation failures are returned as typed
// errors from pkg/errors.
package convert

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/pkj0421/CIM/internal/config"
	"github.com/pkj0421/CIM/internal/domain/molecule"
	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/prometheus"
	"github.com/pkj0421/CIM/internal/infrastructure/tabular"
	"github.com/pkj0421/CIM/pkg/errors"
)

// Defaults for in-memory tables.
const (
	DefaultDir  = "."
	DefaultName = "dataframe"
)

// Source describes where a table came from.  It is fixed at construction.
type Source struct {
	// Path is empty for in-memory tables.
	Path   string
	Dir    string
	Name   string
	Format tabular.Format
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger.  The default is the process logger.
func WithLogger(l logging.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// WithMetrics records loads, canonicalizations and exports on m.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(a *Adapter) { a.metrics = m }
}

// WithToolkit replaces the structure engine.
func WithToolkit(tk molecule.Toolkit) Option {
	return func(a *Adapter) { a.toolkit = tk }
}

// WithOutput sets where confirmations are printed.  The default is stdout.
func WithOutput(w io.Writer) Option {
	return func(a *Adapter) { a.out = w }
}

// WithConvertConfig applies column conventions and the output directory.
func WithConvertConfig(c config.ConvertConfig) Option {
	return func(a *Adapter) { a.convert = c }
}

// WithImageConfig applies grid image settings.
func WithImageConfig(c config.ImageConfig) Option {
	return func(a *Adapter) { a.image = c }
}

// WithOutDir writes exports to dir instead of the source directory.
func WithOutDir(dir string) Option {
	return func(a *Adapter) { a.convert.OutDir = dir }
}

// WithName sets the directory and base name of exports for an in-memory
// table.  It has no effect on NewFromPath.
func WithName(dir, name string) Option {
	return func(a *Adapter) { a.memDir, a.memName = dir, name }
}

// Adapter owns one canonical table and the exporters over it.
type Adapter struct {
	source  Source
	table   *table.Table
	toolkit molecule.Toolkit
	logger  logging.Logger
	metrics *prometheus.AppMetrics
	out     io.Writer
	convert config.ConvertConfig
	image   config.ImageConfig

	memDir, memName string
}

func newAdapter(opts []Option) *Adapter {
	defaults := config.NewDefaultConfig()
	a := &Adapter{
		convert: defaults.Convert,
		image:   defaults.Image,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrDefault(a.logger).Named("convert")
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.toolkit == nil {
		a.toolkit = molecule.NewService(a.logger, molecule.WithObserver(a.metrics.ObserveCanonicalization))
	}
	return a
}

// NewFromTable adopts an in-memory table.  Placeholder columns are dropped
// and the Smiles column, if any, is canonicalized.
func NewFromTable(t *table.Table, opts ...Option) (*Adapter, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeValidation, "no table given")
	}
	a := newAdapter(opts)
	dir, name := a.memDir, a.memName
	if dir == "" {
		dir = DefaultDir
	}
	if name == "" {
		name = DefaultName
	}
	a.source = Source{Dir: dir, Name: name, Format: tabular.FormatDataFrame}
	a.table = t.DropPlaceholderColumns()
	a.canonicalize()
	return a, nil
}

// NewFromPath loads the file at path.  The format is taken from the
// extension; an unknown extension fails with ErrCodeUnsupportedFormat.
func NewFromPath(ctx context.Context, path string, opts ...Option) (*Adapter, error) {
	a := newAdapter(opts)
	format, err := tabular.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	dir, name, _ := tabular.SplitPath(path)
	a.source = Source{Path: path, Dir: dir, Name: name, Format: format}

	start := time.Now()
	skipped, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	a.table = a.table.DropPlaceholderColumns()
	a.canonicalize()
	a.metrics.ObserveLoad(format.String(), a.table.Len(), skipped, time.Since(start))
	logging.LogOperationDuration(a.logger, "load", start,
		logging.String("path", path), logging.Int("rows", a.table.Len()), logging.Int("skipped", skipped))
	return a, nil
}

// Table returns the canonical table itself, not a copy.
func (a *Adapter) Table() *table.Table { return a.table }

// Source returns the source descriptor.
func (a *Adapter) Source() Source { return a.source }

// OutputDir returns the directory exports are written to.
func (a *Adapter) OutputDir() string {
	if a.convert.OutDir != "" {
		return a.convert.OutDir
	}
	return a.source.Dir
}

// SmilesColumn returns the name of the structure column.
func (a *Adapter) SmilesColumn() string { return a.convert.SmilesColumn }

func (a *Adapter) load(ctx context.Context) (skipped int, err error) {
	f, err := os.Open(a.source.Path)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeLoadFailed, "open input").WithDetail("path=" + a.source.Path)
	}
	defer f.Close()

	var t *table.Table
	switch a.source.Format {
	case tabular.FormatText:
		t, err = tabular.ReadDelimited(f, tabular.TabSeparator)
	case tabular.FormatCSV:
		t, err = tabular.ReadDelimited(f, tabular.CommaSeparator)
	case tabular.FormatXLSX:
		t, err = tabular.ReadXLSX(f)
	case tabular.FormatSMI:
		t, err = tabular.ReadSMI(f, a.convert.SmilesColumn, a.convert.IDColumn)
	case tabular.FormatParquet:
		t, err = tabular.ReadParquet(ctx, f)
	case tabular.FormatJSON:
		t, err = tabular.ReadJSON(f)
	case tabular.FormatSDF:
		t, skipped, err = a.readSDF(f)
	default:
		return 0, errors.UnsupportedFormat(a.source.Format.String())
	}
	if err != nil {
		code := errors.GetCode(err)
		if code == errors.CodeUnknown {
			code = errors.ErrCodeLoadFailed
		}
		return 0, errors.Wrap(err, code, "load "+a.source.Format.String()).WithDetail("path=" + a.source.Path)
	}
	a.table = t
	return skipped, nil
}

// canonicalize rewrites the Smiles column.  A value that cannot be
// canonicalized is kept as it was and reported.
func (a *Adapter) canonicalize() {
	col := a.convert.SmilesColumn
	if !a.table.HasColumn(col) {
		return
	}
	kept := 0
	_ = a.table.MapColumn(col, func(i int, v table.Value) table.Value {
		s, ok := v.Get()
		if !ok || s == "" {
			return v
		}
		out, err := a.toolkit.Canonicalize(s)
		if err != nil {
			kept++
			a.logger.Warn("structure kept without canonicalization",
				logging.Int("index", i), logging.String("smiles", s), logging.Err(err))
			return v
		}
		return table.Str(out)
	})
	if kept > 0 {
		a.logger.Info("canonicalization finished with unparsed structures", logging.Int("kept", kept))
	}
}

// confirm prints the success line of an export.
func (a *Adapter) confirm(kind string) {
	c := color.New(color.FgGreen)
	c.Fprintf(a.out, "Your file \"%s\" is successfully converted from %s to %s file.\n", a.source.Name, a.source.Format, kind)
}

//Personal.AI order the ending
