package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkj0421/CIM/internal/application/convert"
	"github.com/pkj0421/CIM/internal/application/setops"
	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
)

// RowsOptions holds the rows command flags.
type RowsOptions struct {
	Column   string
	Relation string
	Values   []string
	OutDir   string
}

// NewRowsCmd creates the rows command.
func NewRowsCmd() *cobra.Command {
	opts := &RowsOptions{}
	cmd := &cobra.Command{
		Use:   "rows <input>",
		Short: "Write the rows whose column satisfies a relation, one file per value",
		Long: "Select rows where <column> <relation> <value> holds and write each\n" +
			"selection as <name>_<column>_<idx> in the input's format.\n" +
			"Relations: ==, !=, <, <=, >, >=.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runRows(cmd, cliCtx, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.Column, "column", "", "column to test (required)")
	f.StringVar(&opts.Relation, "relation", "==", "relation between cell and value")
	f.StringArrayVar(&opts.Values, "value", nil, "value to compare against; repeatable (required)")
	f.StringVar(&opts.OutDir, "out-dir", "", "output directory (default: the input's directory)")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func runRows(cmd *cobra.Command, cliCtx *CLIContext, input string, opts *RowsOptions) error {
	rel, err := table.ParseRelation(opts.Relation)
	if err != nil {
		return err
	}
	a, err := convert.NewFromPath(cmd.Context(), input, cliCtx.AdapterOptions(cmd)...)
	if err != nil {
		return err
	}
	alg, err := setops.New(a.Table(), setops.WithLogger(cliCtx.Logger), setops.WithMetrics(cliCtx.Metrics))
	if err != nil {
		return err
	}
	values := make([]table.Value, len(opts.Values))
	for i, v := range opts.Values {
		values[i] = table.Str(v)
	}
	selections, err := alg.AbstractRows(opts.Column, rel, values...)
	if err != nil {
		return err
	}

	dir := opts.OutDir
	if dir == "" {
		dir = a.OutputDir()
	}
	for idx, sel := range selections {
		name := fmt.Sprintf("%s_%s_%d", a.Source().Name, opts.Column, idx)
		paths, err := exportTable(cmd, cliCtx, sel, dir, name, a.Source().Format)
		if err != nil {
			return err
		}
		cliCtx.Logger.Info("selection written",
			logging.String("value", opts.Values[idx]), logging.Int("rows", sel.Len()), logging.Strings("outputs", paths))
	}
	return nil
}

// NewColumnsCmd creates the columns command.
func NewColumnsCmd() *cobra.Command {
	var columns []string
	cmd := &cobra.Command{
		Use:   "columns <input>",
		Short: "Print the values of one or more columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			a, err := convert.NewFromPath(cmd.Context(), args[0], cliCtx.AdapterOptions(cmd)...)
			if err != nil {
				return err
			}
			alg, err := setops.New(a.Table(), setops.WithLogger(cliCtx.Logger), setops.WithMetrics(cliCtx.Metrics))
			if err != nil {
				return err
			}
			if len(columns) == 1 {
				values, err := alg.AbstractColumn(columns[0])
				if err != nil {
					return err
				}
				printValues(cmd.OutOrStdout(), values)
				return nil
			}
			all, err := alg.AbstractColumns(columns...)
			if err != nil {
				return err
			}
			for i, values := range all {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", columns[i])
				printValues(cmd.OutOrStdout(), values)
				fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&columns, "column", nil, "column to print; repeatable (required)")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

// printValues writes a value list followed by its length.  Numbers are
// printed bare, text quoted and missing values as nan.
func printValues(w io.Writer, values []table.Value) {
	parts := make([]string, len(values))
	for i, v := range values {
		switch s, ok := v.Get(); {
		case !ok:
			parts[i] = "nan"
		case isNumber(v):
			parts[i] = s
		default:
			parts[i] = "'" + s + "'"
		}
	}
	fmt.Fprintf(w, "[%s]\n[type: list, length: %d]\n", strings.Join(parts, ", "), len(values))
}

func isNumber(v table.Value) bool {
	_, ok := v.Float()
	return ok
}

//Personal.AI order the ending
