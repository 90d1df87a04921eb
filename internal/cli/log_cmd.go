package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/loadplan/internal/cli/formatter"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/service"
	"github.com/spf13/cobra"
)

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "List, record, edit or remove work logs and leave",
	}

	cmd.AddCommand(
		newLogListCmd(app),
		newLogAddCmd(app),
		newLogLeaveCmd(app),
		newLogEditCmd(app),
		newLogDeleteCmd(app),
	)

	return cmd
}

func newLogListCmd(app *App) *cobra.Command {
	var planName, member, period, workType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work logs, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := planOrActive(cmd, app, planName)
			if err != nil {
				return err
			}

			var memberID, periodID string
			if member != "" {
				m, ok := p.MemberByName(member)
				if !ok {
					return fmt.Errorf("member '%s' not found in %s", member, p.Name)
				}
				memberID = m.ID
			}
			if period != "" {
				per, ok := p.PeriodByName(period)
				if !ok {
					return fmt.Errorf("period '%s' not found in %s", period, p.Name)
				}
				periodID = per.ID
			}

			var logs []domain.WorkLog
			for _, l := range p.WorkLogs {
				if memberID != "" && l.MemberID != memberID {
					continue
				}
				if periodID != "" && l.PeriodID != periodID {
					continue
				}
				if workType != "" && string(l.Type) != workType {
					continue
				}
				logs = append(logs, l)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkLogs(p, logs))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan to list (default: active plan)")
	cmd.Flags().StringVar(&member, "member", "", "Only this member's logs")
	cmd.Flags().StringVar(&period, "period", "", "Only logs in this period")
	cmd.Flags().StringVar(&workType, "type", "", "Only logs of this type (project, feature or leave)")
	return cmd
}

func newLogAddCmd(app *App) *cobra.Command {
	var planName, workType, task string

	cmd := &cobra.Command{
		Use:   "add MEMBER PERIOD HOURS",
		Short: "Record hours for a member in a period",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return addLog(cmd, app, planName, args, domain.WorkType(workType), task)
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan to record in (default: active plan)")
	cmd.Flags().StringVarP(&workType, "type", "t", string(domain.WorkProject), "Work type: project, feature or leave")
	cmd.Flags().StringVar(&task, "task", "", "Task name (required unless the type is leave)")
	return cmd
}

func newLogLeaveCmd(app *App) *cobra.Command {
	var planName, note string

	cmd := &cobra.Command{
		Use:   "leave MEMBER PERIOD HOURS",
		Short: "Record leave, which comes off the member's capacity",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return addLog(cmd, app, planName, args, domain.WorkLeave, note)
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan to record in (default: active plan)")
	cmd.Flags().StringVar(&note, "note", "", "Label for the leave entry (default: leave)")
	return cmd
}

func addLog(cmd *cobra.Command, app *App, planName string, args []string, wt domain.WorkType, task string) error {
	hours, err := parseHours(args[2])
	if err != nil {
		return err
	}
	l, err := app.Edits.AddLog(cmd.Context(), planName, service.LogEntry{
		Member:   args[0],
		Period:   args[1],
		Type:     wt,
		TaskName: task,
		Hours:    hours,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %sh %s for %s in %s %s\n",
		formatter.FormatHours(l.Hours), formatter.WorkTypeBadge(l.Type), args[0], args[1], formatter.TruncID(l.ID))
	return nil
}

func newLogEditCmd(app *App) *cobra.Command {
	var planName, hours, task string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a work log's hours or task name",
		Long: `Change a work log's hours or task name.

ID may be the short prefix shown by "log list" as long as it is unique.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var upd service.LogUpdate
			if flags.Changed("hours") {
				h, err := parseHours(hours)
				if err != nil {
					return err
				}
				upd.Hours = &h
			}
			if flags.Changed("task") {
				upd.TaskName = &task
			}
			if upd.Hours == nil && upd.TaskName == nil {
				return errors.New("nothing to change: pass --hours or --task")
			}

			l, err := app.Edits.UpdateLog(cmd.Context(), planName, args[0], upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated work log %s: %s %sh\n",
				formatter.TruncID(l.ID), l.TaskName, formatter.FormatHours(l.Hours))
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan the log belongs to (default: active plan)")
	cmd.Flags().StringVar(&hours, "hours", "", "New hours")
	cmd.Flags().StringVar(&task, "task", "", "New task name")
	return cmd
}

func newLogDeleteCmd(app *App) *cobra.Command {
	var planName string

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a work log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Edits.DeleteLog(cmd.Context(), planName, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted work log %s\n", args[0])
			return nil
		},
	}

	addPlanFlag(cmd.Flags(), &planName, "Plan the log belongs to (default: active plan)")
	return cmd
}

func parseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q", s)
	}
	return h, nil
}
