// Package tabular reads and writes the flat file formats a CIM table can
// live in: delimited text, spreadsheets, SMILES lists, Parquet and JSON.
//
// Structure-data files are handled by the chem/molfile package; this package
// only names them so that every format shares one closed enumeration.
package tabular

import (
	"path/filepath"
	"strings"

	"github.com/pkj0421/CIM/pkg/errors"
)

// Format is the closed set of supported file formats.
type Format int

const (
	FormatUnknown Format = iota
	FormatText
	FormatCSV
	FormatXLSX
	FormatSDF
	FormatSMI
	FormatParquet
	FormatJSON
	// FormatPNG is an export-only grid image.
	FormatPNG
	// FormatDataFrame tags an in-memory table.
	FormatDataFrame
)

type formatInfo struct {
	tag        string
	extension  string
	aliases    []string
	loadable   bool
	exportable bool
}

var formats = map[Format]formatInfo{
	FormatText:      {tag: "txt", extension: ".txt", aliases: []string{".tsv"}, loadable: true, exportable: true},
	FormatCSV:       {tag: "csv", extension: ".csv", loadable: true, exportable: true},
	FormatXLSX:      {tag: "xlsx", extension: ".xlsx", loadable: true, exportable: true},
	FormatSDF:       {tag: "sdf", extension: ".sdf", aliases: []string{".sd"}, loadable: true, exportable: true},
	FormatSMI:       {tag: "smi", extension: ".smi", aliases: []string{".smiles"}, loadable: true, exportable: true},
	FormatParquet:   {tag: "parquet", extension: ".parquet", loadable: true, exportable: true},
	FormatJSON:      {tag: "json", extension: ".json", loadable: true, exportable: true},
	FormatPNG:       {tag: "png", extension: ".png", exportable: true},
	FormatDataFrame: {tag: "dataframe"},
}

// String returns the format tag.
func (f Format) String() string {
	if info, ok := formats[f]; ok {
		return info.tag
	}
	return "unknown"
}

// Extension returns the extension files of this format are written with.
func (f Format) Extension() string { return formats[f].extension }

// Loadable reports whether a table can be read from this format.
func (f Format) Loadable() bool { return formats[f].loadable }

// Exportable reports whether a table can be written to this format.
func (f Format) Exportable() bool { return formats[f].exportable }

// Formats lists the file formats in a stable order.
func Formats() []Format {
	return []Format{FormatText, FormatCSV, FormatXLSX, FormatSDF, FormatPNG, FormatSMI, FormatParquet, FormatJSON}
}

// ParseFormat resolves a format tag such as "csv".
func ParseFormat(tag string) (Format, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, f := range Formats() {
		if formats[f].tag == tag {
			return f, nil
		}
	}
	return FormatUnknown, errors.UnsupportedFormat(tag)
}

// FormatFromPath resolves the loadable format implied by a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range Formats() {
		info := formats[f]
		if !info.loadable {
			continue
		}
		if ext == info.extension {
			return f, nil
		}
		for _, a := range info.aliases {
			if ext == a {
				return f, nil
			}
		}
	}
	return FormatUnknown, errors.UnsupportedFormat(ext).WithDetailf("format=%s path=%s", ext, path)
}

// SplitPath splits path into its directory, base name without extension and
// extension.
func SplitPath(path string) (dir, name, ext string) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	dir = filepath.Clean(dir)
	ext = filepath.Ext(base)
	return dir, strings.TrimSuffix(base, ext), ext
}

//Personal.AI order the ending
