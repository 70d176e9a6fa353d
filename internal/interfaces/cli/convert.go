package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pkj0421/CIM/internal/application/convert"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
	"github.com/pkj0421/CIM/internal/infrastructure/tabular"
	"github.com/pkj0421/CIM/pkg/errors"
)

// unavailableFormat is printed for an export target outside the supported set.
const unavailableFormat = "This format is not available yet."

// ConvertOptions holds the convert command flags.
type ConvertOptions struct {
	To             string
	OutDir         string
	Separator      string
	IDColumn       string
	AutoProperties bool
	Properties     []string
	Label          string
	OnlyStructure  bool
	Batch          int
	Interactive    bool
}

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	opts := &ConvertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a compound file to another format",
		Long: "Load a compound file, canonicalize its Smiles column and export it.\n" +
			"Formats: txt, csv, xlsx, sdf, png, smi, parquet, json.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runConvert(cmd, cliCtx, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.To, "to", "", "target format (required)")
	f.StringVar(&opts.OutDir, "out-dir", "", "output directory (default: the input's directory)")
	f.StringVar(&opts.Separator, "sep", "", `txt separator, not a comma (default from config; "\t" or "tab" for a tab)`)
	f.StringVar(&opts.IDColumn, "id-column", "", "sdf: column written as each record's title")
	f.BoolVar(&opts.AutoProperties, "auto-properties", false, "sdf: write every column except ID and Smiles")
	f.StringSliceVar(&opts.Properties, "properties", nil, "sdf: columns to write as data items")
	f.StringVar(&opts.Label, "label", "", "png: column used as legend")
	f.BoolVar(&opts.OnlyStructure, "only-structure", false, "png: draw structures without legends")
	f.IntVar(&opts.Batch, "batch", 0, "png: structures per file for larger tables")
	f.BoolVar(&opts.Interactive, "interactive", false, "prompt for missing export options")
	_ = cmd.MarkFlagRequired("to")
	cmd.MarkFlagsMutuallyExclusive("label", "only-structure")
	cmd.MarkFlagsMutuallyExclusive("auto-properties", "properties")
	return cmd
}

func runConvert(cmd *cobra.Command, cliCtx *CLIContext, input string, opts *ConvertOptions) error {
	format, err := tabular.ParseFormat(opts.To)
	if err != nil || !format.Exportable() {
		fprintln(cmd.OutOrStdout(), unavailableFormat)
		if err == nil {
			err = errors.UnsupportedFormat(opts.To)
		}
		return err
	}
	sep, err := parseSeparator(opts.Separator)
	if err != nil {
		return err
	}

	adapterOpts := cliCtx.AdapterOptions(cmd)
	if opts.OutDir != "" {
		adapterOpts = append(adapterOpts, convert.WithOutDir(opts.OutDir))
	}
	a, err := convert.NewFromPath(cmd.Context(), input, adapterOpts...)
	if err != nil {
		return err
	}

	exportOpts := convert.ExportOptions{
		Delimited: convert.DelimitedOptions{Separator: sep},
		SDF: convert.SDFOptions{
			IDColumn:       opts.IDColumn,
			AutoProperties: opts.AutoProperties,
			Properties:     opts.Properties,
		},
		Image: convert.ImageOptions{
			LabelColumn:   opts.Label,
			OnlyStructure: opts.OnlyStructure || strings.EqualFold(opts.Label, convert.OnlyStructure),
			BatchSize:     opts.Batch,
		},
	}
	if opts.Interactive {
		p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		if err := askExportOptions(p, a, format, opts, &exportOpts); err != nil {
			return err
		}
	}

	paths, err := a.Export(format, exportOpts)
	if err != nil {
		return err
	}
	cliCtx.Logger.Info("conversion finished",
		logging.String("input", input), logging.String("to", format.String()), logging.Strings("outputs", paths))
	return nil
}

// askExportOptions fills the options the flags left unset.
func askExportOptions(p *prompter, a *convert.Adapter, format tabular.Format, opts *ConvertOptions, eo *convert.ExportOptions) error {
	columns := pyList(a.Table().Columns())
	switch format {
	case tabular.FormatSDF:
		if opts.IDColumn == "" {
			id, err := p.ask(fmt.Sprintf(promptIDColumn, columns))
			if err != nil {
				return err
			}
			eo.SDF.IDColumn = id
		}
		if opts.AutoProperties || len(opts.Properties) > 0 {
			return nil
		}
		auto, err := p.askYes(promptAuto)
		if err != nil {
			return err
		}
		if auto {
			eo.SDF.AutoProperties = true
			return nil
		}
		props, err := p.askList(promptProperties)
		if err != nil {
			return err
		}
		eo.SDF.Properties = props

	case tabular.FormatPNG:
		if opts.Label == "" && !opts.OnlyStructure {
			label, err := p.ask(fmt.Sprintf(promptLabel, columns))
			if err != nil {
				return err
			}
			if strings.EqualFold(label, convert.OnlyStructure) {
				eo.Image.OnlyStructure = true
			} else {
				eo.Image.LabelColumn = label
			}
		}
		if opts.Batch == 0 && a.NeedsBatch() {
			n, err := p.askInt(fmt.Sprintf(promptBatch, a.Table().Len()))
			if err != nil {
				return err
			}
			eo.Image.BatchSize = n
		}
	}
	return nil
}

// parseSeparator accepts a single character, "tab" or the escape "\t".
func parseSeparator(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return tabular.TabSeparator, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, errors.Newf(errors.CodeInvalidParam, "separator must be one character, got %q", s)
	}
	return r, nil
}

//Personal.AI order the ending
