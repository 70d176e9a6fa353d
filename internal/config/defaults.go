package config

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultSmilesColumn = "Smiles"
	DefaultIDColumn     = "ID"
	DefaultDelimiter    = "\t"

	DefaultMolsPerRow     = 4
	DefaultSubImageWidth  = 250
	DefaultSubImageHeight = 250
	DefaultSplitThreshold = 5
)

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills every zero-value field in cfg with its default.  Fields
// that have already been set (non-zero values) are left unchanged so that
// explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Convert ───────────────────────────────────────────────────────────────
	if cfg.Convert.SmilesColumn == "" {
		cfg.Convert.SmilesColumn = DefaultSmilesColumn
	}
	if cfg.Convert.IDColumn == "" {
		cfg.Convert.IDColumn = DefaultIDColumn
	}
	if cfg.Convert.Delimiter == "" {
		cfg.Convert.Delimiter = DefaultDelimiter
	}

	// ── Image ─────────────────────────────────────────────────────────────────
	if cfg.Image.MolsPerRow == 0 {
		cfg.Image.MolsPerRow = DefaultMolsPerRow
	}
	if cfg.Image.SubImageWidth == 0 {
		cfg.Image.SubImageWidth = DefaultSubImageWidth
	}
	if cfg.Image.SubImageHeight == 0 {
		cfg.Image.SubImageHeight = DefaultSubImageHeight
	}
	if cfg.Image.SplitThreshold == 0 {
		cfg.Image.SplitThreshold = DefaultSplitThreshold
	}
}

// NewDefaultConfig returns a Config with every field at its default.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
