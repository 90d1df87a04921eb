package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/loadplan/internal/cli/formatter"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newMemberCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "List, add, edit or remove plan members",
	}

	cmd.AddCommand(
		newMemberListCmd(app),
		newMemberAddCmd(app),
		newMemberEditCmd(app),
		newMemberDeleteCmd(app),
	)

	return cmd
}

func newMemberListCmd(app *App) *cobra.Command {
	var planName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members with buffer and work type ratios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := planOrActive(cmd, app, planName)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMembers(p.Members))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan to list (default: active plan)")
	return cmd
}

// memberFlags binds the editable member attributes. Only flags given on
// the command line end up in the update.
type memberFlags struct {
	name         string
	buffer       float64
	projectRatio float64
	featureRatio float64
}

func (f *memberFlags) bind(fs *pflag.FlagSet, withName bool) {
	if withName {
		fs.StringVar(&f.name, "name", "", "New member name")
	}
	fs.Float64Var(&f.buffer, "buffer", 0, "Buffer percentage held back from capacity (0-100)")
	fs.Float64Var(&f.projectRatio, "project-ratio", 0, "Share of capacity for project work (0-100)")
	fs.Float64Var(&f.featureRatio, "feature-ratio", 0, "Share of capacity for feature work (0-100)")
}

func (f *memberFlags) update(fs *pflag.FlagSet) (service.MemberUpdate, bool) {
	var upd service.MemberUpdate
	if fs.Changed("name") {
		upd.Name = &f.name
	}
	if fs.Changed("buffer") {
		upd.Buffer = &f.buffer
	}
	if fs.Changed("project-ratio") {
		upd.ProjectRatio = &f.projectRatio
	}
	if fs.Changed("feature-ratio") {
		upd.FeatureRatio = &f.featureRatio
	}
	changed := upd.Name != nil || upd.Buffer != nil || upd.ProjectRatio != nil || upd.FeatureRatio != nil
	return upd, changed
}

func newMemberAddCmd(app *App) *cobra.Command {
	var (
		planName string
		flags    memberFlags
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a member (defaults: buffer 5%, ratios 50/50)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd, _ := flags.update(cmd.Flags())
			m, err := app.Edits.AddMember(cmd.Context(), planName, args[0], upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added member %s %s\n", formatter.Bold(m.Name), formatter.TruncID(m.ID))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan to add to (default: active plan)")
	flags.bind(cmd.Flags(), false)
	return cmd
}

func newMemberEditCmd(app *App) *cobra.Command {
	var (
		planName string
		flags    memberFlags
	)

	cmd := &cobra.Command{
		Use:   "edit NAME",
		Short: "Change a member's name, buffer or ratios",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd, changed := flags.update(cmd.Flags())
			if !changed {
				return errors.New("nothing to change: pass --name, --buffer, --project-ratio or --feature-ratio")
			}
			m, err := app.Edits.UpdateMember(cmd.Context(), planName, args[0], upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated member %s\n", formatter.Bold(m.Name))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMembers([]domain.Member{*m}))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan the member belongs to (default: active plan)")
	flags.bind(cmd.Flags(), true)
	return cmd
}

func newMemberDeleteCmd(app *App) *cobra.Command {
	var (
		planName string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a member and every work log booked to them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !yes && app.interactive() {
				ok, err := app.confirm(fmt.Sprintf("Delete member %q and all their work logs?", name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			removed, err := app.Edits.DeleteMember(cmd.Context(), planName, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted member %s and %d work log(s)\n", name, removed)
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan the member belongs to (default: active plan)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
