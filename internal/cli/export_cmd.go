package cli

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export plan data as CSV or xlsx",
		Long: `Export plan data as CSV or xlsx.

CSV goes to stdout unless -o is given; files are written with a UTF-8 BOM
so spreadsheet applications read Japanese headers correctly.`,
	}

	cmd.AddCommand(
		newCSVExportCmd("periods", "Export periods as name,startDate,endDate",
			func(ctx context.Context, plan string) (string, error) { return app.Exports.PeriodsCSV(ctx, plan) }),
		newCSVExportCmd("summary", "Export project and feature hours per member and period",
			func(ctx context.Context, plan string) (string, error) { return app.Exports.WorkloadSummaryCSV(ctx, plan) }),
		newCSVExportCmd("leaves", "Export leave hours per member and period",
			func(ctx context.Context, plan string) (string, error) { return app.Exports.LeavesSummaryCSV(ctx, plan) }),
		newXLSXExportCmd(app),
	)

	return cmd
}

func newCSVExportCmd(use, short string, generate func(ctx context.Context, planName string) (string, error)) *cobra.Command {
	var planName, output string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := generate(cmd.Context(), planName)
			if err != nil {
				return err
			}
			return writeCSV(cmd, output, content)
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan to export (default: active plan)")
	addOutputFlag(cmd.Flags(), &output)
	return cmd
}

func newXLSXExportCmd(app *App) *cobra.Command {
	var planName, output string

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Export summaries and periods as an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.New("xlsx export needs an output file (-o FILE)")
			}
			// Build in memory so a failed export leaves no partial file.
			var buf bytes.Buffer
			if err := app.Exports.Workbook(cmd.Context(), planName, &buf); err != nil {
				return err
			}
			return writeFile(cmd, output, func(w io.Writer) error {
				_, err := buf.WriteTo(w)
				return err
			})
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan to export (default: active plan)")
	addOutputFlag(cmd.Flags(), &output)
	return cmd
}
