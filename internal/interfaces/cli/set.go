package cli

import (
	"github.com/spf13/cobra"

	"github.com/pkj0421/CIM/internal/application/convert"
	"github.com/pkj0421/CIM/internal/application/setops"
	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
	"github.com/pkj0421/CIM/internal/infrastructure/tabular"
)

// NewSetCmd creates the set command and its four operations.
func NewSetCmd() *cobra.Command {
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Combine two compound tables on their shared columns",
	}

	type operation struct {
		name, short string
		run         func(*setops.Algebra, *table.Table) (*table.Table, error)
	}
	ops := []operation{
		{setops.OpIntersection, "Rows present in both tables", (*setops.Algebra).Intersection},
		{setops.OpSub, "Rows of the first table absent from the second", (*setops.Algebra).Sub},
		{setops.OpUnion, "Outer join over every column", (*setops.Algebra).Union},
		{setops.OpAdd, "Outer join over the shared columns", (*setops.Algebra).Add},
	}
	for _, op := range ops {
		op := op
		var out string
		sub := &cobra.Command{
			Use:   op.name + " <a> <b>",
			Short: op.short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cliCtx, err := GetCLIContext(cmd)
				if err != nil {
					return err
				}
				return runSet(cmd, cliCtx, op.name, op.run, args[0], args[1], out)
			},
		}
		sub.Flags().StringVar(&out, "out", "", "result file; its extension selects the format (required)")
		_ = sub.MarkFlagRequired("out")
		setCmd.AddCommand(sub)
	}
	return setCmd
}

func runSet(cmd *cobra.Command, cliCtx *CLIContext, name string,
	run func(*setops.Algebra, *table.Table) (*table.Table, error), pathA, pathB, out string) error {
	format, err := tabular.FormatFromPath(out)
	if err != nil {
		return err
	}
	a, err := convert.NewFromPath(cmd.Context(), pathA, cliCtx.AdapterOptions(cmd)...)
	if err != nil {
		return err
	}
	b, err := convert.NewFromPath(cmd.Context(), pathB, cliCtx.AdapterOptions(cmd)...)
	if err != nil {
		return err
	}
	alg, err := setops.New(a.Table(), setops.WithLogger(cliCtx.Logger), setops.WithMetrics(cliCtx.Metrics))
	if err != nil {
		return err
	}
	res, err := run(alg, b.Table())
	if err != nil {
		return err
	}
	dir, base, _ := tabular.SplitPath(out)
	paths, err := exportTable(cmd, cliCtx, res, dir, base, format)
	if err != nil {
		return err
	}
	cliCtx.Logger.Info("set operation written",
		logging.String("op", name), logging.Int("rows", res.Len()), logging.Strings("outputs", paths))
	return nil
}

// exportTable writes t as <dir>/<name> in format.  Structure-data output
// carries every column as a data item.
func exportTable(cmd *cobra.Command, cliCtx *CLIContext, t *table.Table, dir, name string, format tabular.Format) ([]string, error) {
	opts := append(cliCtx.AdapterOptions(cmd), convert.WithName(dir, name), convert.WithOutDir(dir))
	a, err := convert.NewFromTable(t, opts...)
	if err != nil {
		return nil, err
	}
	return a.Export(format, convert.ExportOptions{SDF: convert.SDFOptions{AutoProperties: true}})
}

//Personal.AI order the ending
