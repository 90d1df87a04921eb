package cli

import (
	"fmt"

	"github.com/alexanderramin/loadplan/internal/cli/formatter"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage plans",
	}

	cmd.AddCommand(
		newPlanCreateCmd(app),
		newPlanListCmd(app),
		newPlanUseCmd(app),
		newPlanRenameCmd(app),
		newPlanDeleteCmd(app),
		newPlanShowCmd(app),
		newPlanSettingsCmd(app),
	)

	return cmd
}

func newPlanCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty plan and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s %s\n", formatter.Bold(p.Name), formatter.TruncID(p.ID))
			return nil
		},
	}
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plans, err := app.Plans.List(ctx)
			if err != nil {
				return err
			}
			var activeID string
			if len(plans) > 0 {
				active, err := app.Plans.Active(ctx)
				if err != nil {
					return err
				}
				activeID = active.ID
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans, activeID))
			return nil
		},
	}
}

func newPlanUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use NAME",
		Short: "Switch the active plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.SetActive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active plan: %s\n", formatter.Bold(p.Name))
			return nil
		},
	}
}

func newPlanRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.Rename(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], formatter.Bold(p.Name))
			return nil
		},
	}
}

func newPlanDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a plan and all its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !yes && app.interactive() {
				ok, err := app.confirm(fmt.Sprintf("Delete plan %q and all its work logs?", name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Plans.Delete(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [NAME]",
		Short: "Show a plan (default: the active plan)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			active, err := app.Plans.Active(ctx)
			if err != nil {
				return err
			}
			p := active
			if len(args) == 1 {
				if p, err = app.Plans.GetByName(ctx, args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(p, p.ID == active.ID))
			return nil
		},
	}
}

func newPlanSettingsCmd(app *App) *cobra.Command {
	var (
		planName        string
		dailyHours      float64
		publicHolidays  bool
		companyHolidays []string
		replace         bool
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change plan capacity settings",
		Long: `Show or change plan capacity settings.

Changing public holidays or company holidays recomputes the working days
of every period in the plan.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			var upd service.SettingsUpdate
			changed := false
			if flags.Changed("daily-hours") {
				upd.DefaultDailyHours = &dailyHours
				changed = true
			}
			if flags.Changed("public-holidays") {
				upd.ConsiderPublicHolidays = &publicHolidays
				changed = true
			}
			for _, s := range companyHolidays {
				d, err := domain.ParseDate(s)
				if err != nil {
					return fmt.Errorf("invalid company holiday %q: %w", s, err)
				}
				upd.CompanyHolidays = append(upd.CompanyHolidays, d)
				changed = true
			}
			if replace {
				upd.ReplaceHolidays = true
				changed = true
			}

			if !changed {
				p, err := planOrActive(cmd, app, planName)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox(p.Name, formatter.FormatSettings(p.Settings)))
				return nil
			}

			name := planName
			if name == "" {
				active, err := app.Plans.Active(ctx)
				if err != nil {
					return err
				}
				name = active.Name
			}
			p, err := app.Plans.UpdateSettings(ctx, name, upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated settings for %s\n", formatter.Bold(p.Name))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSettings(p.Settings))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan to configure (default: active plan)")
	cmd.Flags().Float64Var(&dailyHours, "daily-hours", 0, "Default working hours per day")
	cmd.Flags().BoolVar(&publicHolidays, "public-holidays", true, "Exclude public holidays from working days")
	cmd.Flags().StringArrayVar(&companyHolidays, "company-holiday", nil, "Company holiday YYYY-MM-DD (repeatable)")
	cmd.Flags().BoolVar(&replace, "replace-holidays", false, "Replace the company holiday list instead of adding to it")

	return cmd
}

// planOrActive loads the named plan, or the active one when name is empty.
func planOrActive(cmd *cobra.Command, app *App, name string) (*domain.Plan, error) {
	if name == "" {
		return app.Plans.Active(cmd.Context())
	}
	return app.Plans.GetByName(cmd.Context(), name)
}
