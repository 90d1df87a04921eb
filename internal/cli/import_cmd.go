package cli

import (
	"fmt"

	"github.com/alexanderramin/loadplan/internal/cli/formatter"
	"github.com/alexanderramin/loadplan/internal/service"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV straight into the active plan",
		Long: `Import a CSV straight into the active plan, skipping staging.

Re-importing the same file is safe: rows are matched by name and replace
the hours already recorded.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "periods FILE",
			Short: "Import periods from a name,startDate,endDate CSV",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				text, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				res, err := app.Imports.ImportPeriods(cmd.Context(), text)
				if err != nil {
					return err
				}
				printImportResult(cmd, res)
				return nil
			},
		},
		&cobra.Command{
			Use:   "workload FILE",
			Short: "Import work logs from a workload CSV",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				text, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				res, err := app.Imports.ImportWorkload(cmd.Context(), text)
				if err != nil {
					return err
				}
				printImportResult(cmd, res)
				return nil
			},
		},
	)

	return cmd
}

func printImportResult(cmd *cobra.Command, res *service.ImportResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported into %s\n", formatter.Bold(res.Plan.Name))
	fmt.Fprint(out, formatter.FormatReport(res.Report))
	fmt.Fprint(out, formatter.FormatWarnings(res.Warnings))
}
