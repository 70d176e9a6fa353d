package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkj0421/CIM/internal/config"
	"github.com/pkj0421/CIM/internal/infrastructure/chem/depict"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
	"github.com/pkj0421/CIM/internal/infrastructure/tabular"
	"github.com/pkj0421/CIM/pkg/errors"
)

// OnlyStructure is the label answer that draws cells without legends.
const OnlyStructure = "only structure"

// ImageOptions configures grid image export.
type ImageOptions struct {
	// LabelColumn supplies each cell's legend.  Empty uses the configured
	// ID column.
	LabelColumn string
	// OnlyStructure draws no legends.
	OnlyStructure bool
	// BatchSize is the number of structures per file.  It is required once
	// the table reaches the split threshold.
	BatchSize int
}

// DrawDir returns the directory grid images are written to.
func (a *Adapter) DrawDir() string {
	return filepath.Join(a.OutputDir(), a.source.Name+"_draw")
}

// NeedsBatch reports whether ExportImages will split the table.
func (a *Adapter) NeedsBatch() bool {
	return a.table.Len() >= a.image.SplitThreshold
}

// ExportImages draws the Smiles column into <dir>/<name>_draw/.  Tables
// reaching the split threshold are written as <name>_<idx>.png chunks of
// BatchSize structures; smaller tables as a single <name>.png with every
// structure on one row.
func (a *Adapter) ExportImages(opts ImageOptions) ([]string, error) {
	var paths []string
	err := a.export(tabular.FormatPNG, func() (int, error) {
		if !a.table.HasColumn(a.convert.SmilesColumn) {
			return 0, errors.MissingColumn(a.convert.SmilesColumn)
		}
		labels, err := a.imageLabels(opts)
		if err != nil {
			return 0, err
		}
		dir := a.DrawDir()
		if err := a.makeDrawDir(dir); err != nil {
			return 0, err
		}

		cells := a.imageCells(labels)
		plan, err := planImages(a.source.Name, cells, a.image, opts.BatchSize)
		if err != nil {
			return 0, err
		}
		kind := "single"
		if a.NeedsBatch() {
			kind = "chunk"
		}
		for _, f := range plan {
			p := filepath.Join(dir, f.name+tabular.FormatPNG.Extension())
			if err := f.grid.SavePNG(p, f.cells); err != nil {
				return 0, err
			}
			a.metrics.ObserveImage(kind)
			paths = append(paths, p)
		}
		return len(cells), nil
	})
	if err != nil {
		return nil, err
	}
	a.confirm("png")
	return paths, nil
}

// imageFile is one grid image of an export.
type imageFile struct {
	name  string
	grid  depict.Grid
	cells []depict.Cell
}

// planImages splits cells into the files of one export.  Below the split
// threshold everything goes to a single file named name with all cells on
// one row; otherwise consecutive runs of batch cells go to name_<idx>.
func planImages(name string, cells []depict.Cell, cfg config.ImageConfig, batch int) ([]imageFile, error) {
	grid := depict.Grid{
		MolsPerRow: cfg.MolsPerRow,
		CellWidth:  cfg.SubImageWidth,
		CellHeight: cfg.SubImageHeight,
	}
	if len(cells) < cfg.SplitThreshold {
		if len(cells) > 0 {
			grid.MolsPerRow = len(cells)
		}
		return []imageFile{{name: name, grid: grid, cells: cells}}, nil
	}
	if batch <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidExportOptions,
			"batch size must be positive for %d structures", len(cells)).
			WithDetailf("batch=%d", batch)
	}
	files := make([]imageFile, 0, (len(cells)+batch-1)/batch)
	for idx, start := 0, 0; start < len(cells); idx, start = idx+1, start+batch {
		end := min(start+batch, len(cells))
		files = append(files, imageFile{
			name:  fmt.Sprintf("%s_%d", name, idx),
			grid:  grid,
			cells: cells[start:end],
		})
	}
	return files, nil
}

func (a *Adapter) imageLabels(opts ImageOptions) ([]string, error) {
	if opts.OnlyStructure {
		return nil, nil
	}
	col := opts.LabelColumn
	if col == "" {
		col = a.convert.IDColumn
	}
	if !a.table.HasColumn(col) {
		return nil, errors.New(errors.ErrCodeInvalidExportOptions, "label column not found").
			WithDetail("column=" + col)
	}
	values, _ := a.table.Column(col)
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = v.String()
	}
	return labels, nil
}

func (a *Adapter) imageCells(labels []string) []depict.Cell {
	values, _ := a.table.Column(a.convert.SmilesColumn)
	cells := make([]depict.Cell, len(values))
	for i, v := range values {
		if labels != nil {
			cells[i].Legend = labels[i]
		}
		m, err := a.toolkit.Parse(v.String())
		if err != nil {
			a.logger.Warn("structure drawn as empty cell",
				logging.Int("index", i), logging.String("smiles", v.String()), logging.Err(err))
			continue
		}
		cells[i].Molecule = m
	}
	return cells
}

func (a *Adapter) makeDrawDir(dir string) error {
	err := os.Mkdir(dir, 0o755)
	switch {
	case err == nil:
		return nil
	case os.IsExist(err):
		exists := errors.Wrap(err, errors.ErrCodeDirectoryExists, "create image directory")
		a.logger.Debug("image directory already exists", logging.String("path", dir), logging.ErrCode(exists))
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeFileSystemError, "create image directory").WithDetail("path=" + dir)
	}
	return nil
}

//Personal.AI order the ending
