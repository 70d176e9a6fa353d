// Package config provides configuration loading, defaults, and validation for
// CIM.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pkj0421/CIM/pkg/errors"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "CIM"

// DefaultSearchPaths lists the config files tried, in order, when no explicit
// path is given.  A leading "~" expands to the user's home directory.
var DefaultSearchPaths = []string{
	"./cim.yaml",
	"~/.cim/config.yaml",
}

// newViper builds a pre-configured Viper instance: YAML file type, CIM_ env
// prefix, automatic env binding, and a key replacer that maps "." → "_" so
// that nested keys like "image.mols_per_row" resolve to CIM_IMAGE_MOLS_PER_ROW.
//
// Every key is registered with its default so that AutomaticEnv can see it
// during Unmarshal even when no config file mentions the key.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.disable_color", false)
	v.SetDefault("convert.smiles_column", DefaultSmilesColumn)
	v.SetDefault("convert.id_column", DefaultIDColumn)
	v.SetDefault("convert.delimiter", DefaultDelimiter)
	v.SetDefault("convert.out_dir", "")
	v.SetDefault("image.mols_per_row", DefaultMolsPerRow)
	v.SetDefault("image.sub_image_width", DefaultSubImageWidth)
	v.SetDefault("image.sub_image_height", DefaultSubImageHeight)
	v.SetDefault("image.split_threshold", DefaultSplitThreshold)
	v.SetDefault("metrics.textfile", "")
	return v
}

// Load reads the YAML file at configPath, merges any CIM_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "config: failed to read config file").
			WithDetail("path=" + configPath)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from CIM_* environment variables and defaults,
// with no config file required.
//
//	CIM_<SECTION>_<FIELD>   e.g.  CIM_LOG_LEVEL, CIM_IMAGE_MOLS_PER_ROW
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// Discover loads explicitPath when it is non-empty.  Otherwise it loads the
// first existing file of DefaultSearchPaths, falling back to LoadFromEnv.
// The returned string is the file actually used ("" for env-only).
func Discover(explicitPath string) (*Config, string, error) {
	if explicitPath != "" {
		cfg, err := Load(explicitPath)
		return cfg, explicitPath, err
	}
	for _, p := range DefaultSearchPaths {
		path := expandHome(p)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			cfg, err := Load(path)
			return cfg, path, err
		}
	}
	cfg, err := LoadFromEnv()
	return cfg, "", err
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "config: failed to unmarshal configuration")
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// MustLoad is a convenience wrapper around Load that panics on any error.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic("config: MustLoad failed: " + err.Error())
	}
	return cfg
}

//Personal.AI order the ending
