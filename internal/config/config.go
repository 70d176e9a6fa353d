// Package config defines the configuration structures for CIM.  No I/O or
// parsing logic lives in this file, only plain data types and validation.
package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
	"github.com/pkj0421/CIM/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ConvertConfig holds the column conventions used by loaders and exporters.
type ConvertConfig struct {
	// SmilesColumn names the identity column that carries structures.
	SmilesColumn string `mapstructure:"smiles_column"`
	// IDColumn is the column used for SDF titles and .smi identifiers.
	IDColumn string `mapstructure:"id_column"`
	// Delimiter is the default separator for delimited export.
	Delimiter string `mapstructure:"delimiter"`
	// OutDir overrides the directory exports are written to. Empty means the
	// input file's own directory.
	OutDir string `mapstructure:"out_dir"`
}

// ImageConfig holds grid image tunables.
type ImageConfig struct {
	MolsPerRow     int `mapstructure:"mols_per_row"`
	SubImageWidth  int `mapstructure:"sub_image_width"`
	SubImageHeight int `mapstructure:"sub_image_height"`
	// SplitThreshold is the row count from which image export is chunked.
	SplitThreshold int `mapstructure:"split_threshold"`
}

// MetricsConfig controls the Prometheus text-file dump written at exit.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object.
type Config struct {
	Log     logging.LogConfig `mapstructure:"log"`
	Convert ConvertConfig     `mapstructure:"convert"`
	Image   ImageConfig       `mapstructure:"image"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered as an ErrCodeConfigInvalid AppError.
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("config: "+format, args...))
	}

	// Log
	if !logging.ValidLevel(c.Log.Level) {
		return invalid("log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return invalid("log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Convert
	if c.Convert.SmilesColumn == "" {
		return invalid("convert.smiles_column is required")
	}
	if c.Convert.IDColumn == "" {
		return invalid("convert.id_column is required")
	}
	if utf8.RuneCountInString(c.Convert.Delimiter) != 1 {
		return invalid("convert.delimiter must be a single character, got %q", c.Convert.Delimiter)
	}

	// Image
	if c.Image.MolsPerRow < 1 {
		return invalid("image.mols_per_row must be ≥ 1, got %d", c.Image.MolsPerRow)
	}
	if c.Image.SubImageWidth < 50 || c.Image.SubImageHeight < 50 {
		return invalid("image.sub_image_width/height must be ≥ 50, got %dx%d",
			c.Image.SubImageWidth, c.Image.SubImageHeight)
	}
	if c.Image.SplitThreshold < 1 {
		return invalid("image.split_threshold must be ≥ 1, got %d", c.Image.SplitThreshold)
	}

	return nil
}

//Personal.AI order the ending
