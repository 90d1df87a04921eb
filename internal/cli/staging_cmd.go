package cli

import (
	"fmt"

	"github.com/alexanderramin/loadplan/internal/cli/formatter"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/spf13/cobra"
)

func newStagingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staging",
		Short: "Review, apply or discard staged imports",
	}

	cmd.AddCommand(
		newStagingListCmd(app),
		newStagingShowCmd(app),
		newStagingClearCmd(app),
		newStagingPreviewCmd(app),
		newStagingApplyCmd(app),
	)

	return cmd
}

func newStagingListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending staging buckets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Staging.Pending(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStagedList(entries))
			return nil
		},
	}
}

func newStagingShowCmd(app *App) *cobra.Command {
	var planName string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the contents of a staging bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := app.Staging.Load(cmd.Context(), planName)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPayload(domain.StagingKey{PlanName: planName}, payload))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Show this plan's bucket instead of the global one")
	return cmd
}

func newStagingClearCmd(app *App) *cobra.Command {
	var planName string

	cmd := &cobra.Command{
		Use:       "clear {global|plan|all}",
		Short:     "Discard staged imports",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.TargetGlobal), string(domain.TargetPlan), string(domain.TargetAll)},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, ok := domain.ParseStagingTarget(args[0])
			if !ok {
				return fmt.Errorf("unknown clear target %q (want global, plan or all)", args[0])
			}
			if err := app.Staging.Clear(cmd.Context(), target, planName); err != nil {
				return err
			}
			label := string(target)
			if target == domain.TargetPlan {
				label = domain.StagingKey{PlanName: planName}.String()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared staging: %s\n", label)
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan whose bucket to clear (with target plan)")
	return cmd
}

func newStagingPreviewCmd(app *App) *cobra.Command {
	var planName string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show what applying a staging bucket would change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Reconcile.Preview(cmd.Context(), planName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merge into %s\n", formatter.Bold(res.Plan.Name))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReport(res.Report))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Preview this plan's bucket")
	return cmd
}

func newStagingApplyCmd(app *App) *cobra.Command {
	var (
		planName string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Merge a staging bucket into its live plan",
		Long: `Merge a staging bucket into its live plan.

The global bucket is applied to the active plan and a plan bucket to the
plan of that name; either plan is created when missing. Staged rows
replace matching live rows. The bucket is cleared on success.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			key := domain.StagingKey{PlanName: planName}

			staged, err := app.Staging.Load(ctx, planName)
			if err != nil {
				return err
			}
			if staged.IsEmpty() {
				fmt.Fprintf(out, "Nothing staged for %s.\n", key)
				return nil
			}

			preview, err := app.Reconcile.Preview(ctx, planName)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Merge %s into %s\n", formatter.BucketLabel(key), formatter.Bold(preview.Plan.Name))
			fmt.Fprint(out, formatter.FormatReport(preview.Report))

			if !yes && app.interactive() {
				ok, err := app.confirm(fmt.Sprintf("Apply staged import to %q?", preview.Plan.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Cancelled. The staged import was kept.")
					return nil
				}
			}

			res, err := app.Reconcile.Apply(ctx, planName)
			if err != nil {
				return err
			}
			if !res.Applied {
				fmt.Fprintf(out, "Nothing staged for %s.\n", key)
				return nil
			}
			fmt.Fprintf(out, "Applied to %s\n", formatter.Bold(res.Plan.Name))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Apply this plan's bucket instead of the global one")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply without asking for confirmation")
	return cmd
}
