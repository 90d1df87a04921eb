package cli

import (
	"fmt"

	"github.com/alexanderramin/loadplan/internal/capacity"
	"github.com/alexanderramin/loadplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCapacityCmd(app *App) *cobra.Command {
	var (
		planName string
		member   string
		noBuffer bool
	)

	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Show capacity and remaining hours per member and period",
		Long: `Show capacity and remaining hours per member and period.

Available hours are working days times the plan's daily hours, minus leave,
minus the member's buffer. Project and feature capacity are the member's
ratios of that; LEFT subtracts the hours already logged to each type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Plans.Capacity(cmd.Context(), planName, capacity.Options{WithBuffer: !noBuffer})
			if err != nil {
				return err
			}

			rows := res.Rows
			if member != "" {
				m, ok := res.Plan.MemberByName(member)
				if !ok {
					return fmt.Errorf("member '%s' not found in %s", member, res.Plan.Name)
				}
				rows = rows[:0:0]
				for _, r := range res.Rows {
					if r.MemberID == m.ID {
						rows = append(rows, r)
					}
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Capacity of %s\n", formatter.Bold(res.Plan.Name))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCapacity(rows))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan to report on (default: active plan)")
	cmd.Flags().StringVar(&member, "member", "", "Only this member")
	cmd.Flags().BoolVar(&noBuffer, "no-buffer", false, "Ignore member buffers")
	return cmd
}
