package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/loadplan/internal/cli/formatter"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/service"
	"github.com/spf13/cobra"
)

func newPeriodCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "List, add, edit or remove plan periods",
	}

	cmd.AddCommand(
		newPeriodListCmd(app),
		newPeriodAddCmd(app),
		newPeriodEditCmd(app),
		newPeriodDeleteCmd(app),
	)

	return cmd
}

func newPeriodListCmd(app *App) *cobra.Command {
	var planName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List periods with their working days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := planOrActive(cmd, app, planName)
			if err != nil {
				return err
			}
			if len(p.Periods) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No periods."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPeriods(p.Periods))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan to list (default: active plan)")
	return cmd
}

func newPeriodAddCmd(app *App) *cobra.Command {
	var planName string

	cmd := &cobra.Command{
		Use:   "add NAME START END",
		Short: "Add a period; dates are YYYY-MM-DD, both inclusive",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateArg("start", args[1])
			if err != nil {
				return err
			}
			end, err := parseDateArg("end", args[2])
			if err != nil {
				return err
			}
			per, err := app.Edits.AddPeriod(cmd.Context(), planName, args[0], start, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added period %s with %d working day(s)\n", formatter.Bold(per.Name), per.WorkingDays)
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan to add to (default: active plan)")
	return cmd
}

func newPeriodEditCmd(app *App) *cobra.Command {
	var planName, name, start, end string

	cmd := &cobra.Command{
		Use:   "edit NAME",
		Short: "Rename a period or move its dates",
		Long: `Rename a period or move its dates.

New dates recompute the period's working days from the plan settings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var upd service.PeriodUpdate
			if flags.Changed("name") {
				upd.Name = &name
			}
			if flags.Changed("start") {
				d, err := parseDateArg("start", start)
				if err != nil {
					return err
				}
				upd.StartDate = &d
			}
			if flags.Changed("end") {
				d, err := parseDateArg("end", end)
				if err != nil {
					return err
				}
				upd.EndDate = &d
			}
			if upd.Name == nil && upd.StartDate == nil && upd.EndDate == nil {
				return errors.New("nothing to change: pass --name, --start or --end")
			}

			per, err := app.Edits.UpdatePeriod(cmd.Context(), planName, args[0], upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated period %s\n", formatter.Bold(per.Name))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPeriods([]domain.Period{*per}))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan the period belongs to (default: active plan)")
	cmd.Flags().StringVar(&name, "name", "", "New period name")
	cmd.Flags().StringVar(&start, "start", "", "New start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "New end date YYYY-MM-DD")
	return cmd
}

func newPeriodDeleteCmd(app *App) *cobra.Command {
	var (
		planName string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a period and every work log booked in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !yes && app.interactive() {
				ok, err := app.confirm(fmt.Sprintf("Delete period %q and all its work logs?", name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			removed, err := app.Edits.DeletePeriod(cmd.Context(), planName, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted period %s and %d work log(s)\n", name, removed)
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan the period belongs to (default: active plan)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func parseDateArg(what, s string) (domain.Date, error) {
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, fmt.Errorf("invalid %s date %q: %w", what, s, err)
	}
	return d, nil
}
