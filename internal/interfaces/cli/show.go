package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/pkj0421/CIM/internal/application/convert"
	"github.com/pkj0421/CIM/internal/domain/molecule"
	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
	"github.com/pkj0421/CIM/pkg/errors"
)

const defaultShowLimit = 20

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "show <input>",
		Short: "Print the canonical table of a compound file",
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
			renderTable(cmd.OutOrStdout(), a.Table(), limit)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultShowLimit, "maximum rows to print; 0 prints all")
	return cmd
}

// renderTable prints up to limit rows of t with a positional index column.
func renderTable(w io.Writer, t *table.Table, limit int) {
	tw := prettytable.NewWriter()
	tw.SetOutputMirror(w)
	style := prettytable.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)

	header := prettytable.Row{""}
	for _, c := range t.Columns() {
		header = append(header, c)
	}
	tw.AppendHeader(header)

	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	for i := 0; i < n; i++ {
		row := prettytable.Row{i}
		for _, v := range t.Row(i) {
			if v.IsMissing() {
				row = append(row, "NaN")
				continue
			}
			row = append(row, v.String())
		}
		tw.AppendRow(row)
	}
	tw.AppendFooter(prettytable.Row{fmt.Sprintf("%d rows x %d columns", t.Len(), t.Width())})
	tw.Render()
}

// NewCanonCmd creates the canon command.
func NewCanonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canon <smiles>...",
		Short: "Print the canonical form of each SMILES",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			svc := molecule.NewService(cliCtx.Logger, molecule.WithObserver(cliCtx.Metrics.ObserveCanonicalization))
			failed := 0
			for _, s := range args {
				out, err := svc.Canonicalize(s)
				if err != nil {
					failed++
					color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "%s\t%v\n", s, err)
					cliCtx.Logger.Debug("canonicalization failed", logging.String("smiles", s), logging.Err(err))
					continue
				}
				fprintln(cmd.OutOrStdout(), out)
			}
			if failed > 0 {
				return errors.Newf(errors.ErrCodeMoleculeInvalidSMILES, "%d of %d structures could not be canonicalized", failed, len(args))
			}
			return nil
		},
	}
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cim %s\ncommit: %s\nbuilt: %s\n", Version, GitCommit, BuildDate)
		},
	}
}

//Personal.AI order the ending
