// Package cli implements the cim command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkj0421/CIM/internal/application/convert"
	"github.com/pkj0421/CIM/internal/config"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/prometheus"
	"github.com/pkj0421/CIM/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath  string
	LogLevel    string
	Verbose     bool
	NoColor     bool
	MetricsFile string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config    *config.Config
	Logger    logging.Logger
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics
	RunID     string
	NoColor   bool
}

// AdapterOptions returns the convert options every command shares.
func (c *CLIContext) AdapterOptions(cmd *cobra.Command) []convert.Option {
	return []convert.Option{
		convert.WithLogger(c.Logger),
		convert.WithMetrics(c.Metrics),
		convert.WithOutput(cmd.OutOrStdout()),
		convert.WithConvertConfig(c.Config.Convert),
		convert.WithImageConfig(c.Config.Image),
	}
}

// NewRootCommand creates the root cobra command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cim",
		Short: "CIM converts compound datasets between file formats",
		Long: "CIM loads compound tables from delimited text, spreadsheets, structure-data\n" +
			"files, SMILES lists, Parquet and JSON, canonicalizes their structures and\n" +
			"exports them to any of those formats or to grid images.  It also performs\n" +
			"set algebra between tables and selects rows and columns.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPostRun(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./cim.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.StringVar(&opts.MetricsFile, "metrics-file", "", "write metrics in text exposition format to this file at exit")

	cmd.AddCommand(
		NewConvertCmd(),
		NewSetCmd(),
		NewRowsCmd(),
		NewColumnsCmd(),
		NewShowCmd(),
		NewCanonCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// persistentPreRun initializes config, logger and metrics, then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, path, err := config.Discover(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		if !logging.ValidLevel(opts.LogLevel) {
			return errors.Newf(errors.CodeInvalidParam, "unknown log level %q", opts.LogLevel)
		}
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	if opts.MetricsFile != "" {
		cfg.Metrics.Textfile = opts.MetricsFile
	}
	if opts.NoColor {
		color.NoColor = true
		cfg.Log.DisableColor = true
	}

	runID := uuid.NewString()
	logger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logger = logger.With(logging.String("run_id", runID))
	logging.SetDefault(logger)
	if path != "" {
		logger.Debug("configuration loaded", logging.String("path", path))
	}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "cim"}, logger)
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{
		Config:    cfg,
		Logger:    logger,
		Collector: collector,
		Metrics:   prometheus.NewAppMetrics(collector),
		RunID:     runID,
		NoColor:   opts.NoColor,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// persistentPostRun flushes logs and writes the metrics textfile.
func persistentPostRun(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil
	}
	defer func() { _ = cliCtx.Logger.Sync() }()
	return writeMetrics(cliCtx)
}

func writeMetrics(c *CLIContext) error {
	path := c.Config.Metrics.Textfile
	if path == "" || c.Collector == nil {
		return nil
	}
	if err := c.Collector.WriteTextfile(path); err != nil {
		return errors.Wrap(err, errors.ErrCodeFileSystemError, "write metrics textfile").WithDetail("path=" + path)
	}
	c.Logger.Debug("metrics written", logging.String("path", path))
	return nil
}

// initLogger creates a logger configured for CLI usage.  Output always goes
// to stderr so that stdout carries results only.
func initLogger(cfg *config.Config) (logging.Logger, error) {
	logCfg := cfg.Log
	logCfg.OutputPaths = []string{"stderr"}
	logCfg.ErrorOutputPaths = []string{"stderr"}
	return logging.NewLogger(logCfg)
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeValidation, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeValidation, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute runs the command tree and returns the process exit status.
func Execute() int {
	rootCmd := NewRootCommand()
	ran, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}
	// a failed run skips the post-run hook; metrics are still written
	if cliCtx, ctxErr := GetCLIContext(ran); ctxErr == nil {
		_ = writeMetrics(cliCtx)
		_ = cliCtx.Logger.Sync()
	}
	PrintError(rootCmd, err)
	return errors.ExitStatus(err)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// pyList renders names as a bracketed list of quoted strings.
func pyList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func fprintln(w io.Writer, a ...interface{}) {
	_, _ = fmt.Fprintln(w, a...)
}

//Personal.AI order the ending
