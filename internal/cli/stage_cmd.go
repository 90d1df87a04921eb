package cli

import (
	"fmt"

	"github.com/alexanderramin/loadplan/internal/cli/formatter"
	"github.com/alexanderramin/loadplan/internal/service"
	"github.com/spf13/cobra"
)

func newStageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Stage a CSV import for later review and apply",
		Long: `Stage a CSV import for later review and apply.

Without --plan the import goes to the global bucket, which is applied to
the active plan. FILE may be "-" to read standard input.`,
	}

	cmd.AddCommand(
		newStagePeriodsCmd(app),
		newStageWorkloadCmd(app),
	)

	return cmd
}

func newStagePeriodsCmd(app *App) *cobra.Command {
	var planName string

	cmd := &cobra.Command{
		Use:   "periods FILE",
		Short: "Stage periods from a name,startDate,endDate CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := app.Imports.StagePeriods(cmd.Context(), text, planName)
			if err != nil {
				return err
			}
			printStageResult(cmd, res, "period")
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Stage into this plan's bucket")
	return cmd
}

func newStageWorkloadCmd(app *App) *cobra.Command {
	var planName string

	cmd := &cobra.Command{
		Use:   "workload FILE",
		Short: "Stage work logs from a workload CSV",
		Long: `Stage work logs from a workload CSV.

Columns are work type, project, task, member, then one hours column per
period in the order the periods are known. Periods must be imported or
staged first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := app.Imports.StageWorkload(cmd.Context(), text, planName)
			if err != nil {
				return err
			}
			printStageResult(cmd, res, "work log")
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Stage into this plan's bucket")
	return cmd
}

func printStageResult(cmd *cobra.Command, res *service.StageResult, noun string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Staged %d %s(s) into %s\n", res.Added, noun, formatter.BucketLabel(res.Key))
	fmt.Fprint(out, formatter.FormatWarnings(res.Warnings))
	fmt.Fprintln(out, formatter.Dim("Review with: loadplan staging show"+planFlagHint(res.Key.PlanName)))
}

func planFlagHint(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf(" --plan %q", name)
}
