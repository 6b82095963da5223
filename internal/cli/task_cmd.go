package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planline/internal/cli/formatter"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks; every change rolls up to the project root",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskUpdateCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var parent, title, project string
	var order int
	var hours float64
	var start, finish dateFlag

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task under an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			parentID, err := resolveNodeID(ctx, app, parent, project)
			if err != nil {
				return err
			}
			n := &domain.WbsNode{
				ParentID:   &parentID,
				Kind:       domain.NodeTask,
				Title:      title,
				OrderIndex: order,
				DateStart:  start.Value(),
				DateFinish: finish.Value(),
			}
			if cmd.Flags().Changed("hours") {
				n.HoursPlanned = &hours
			}

			res, err := app.Wbs.CreateTask(ctx, n)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %q (%s)\n", n.Title, n.ID)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRollup(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent activity ID")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().Var(&start, "start", "Start date (YYYY-MM-DD)")
	cmd.Flags().Var(&finish, "finish", "Finish date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Planned hours")
	cmd.Flags().IntVar(&order, "order", 0, "Sort position among siblings")
	cmd.Flags().StringVar(&project, "project", "", "Project used to resolve ID prefixes")
	_ = cmd.MarkFlagRequired("parent")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var title, project string
	var hours float64
	var start, finish dateFlag
	var clearDates, clearHours bool

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a task's title, dates or hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveNodeID(ctx, app, args[0], project)
			if err != nil {
				return err
			}
			m := domain.LeafMutation{
				NodeID:     id,
				DateStart:  start.Value(),
				DateFinish: finish.Value(),
				ClearDates: clearDates,
				ClearHours: clearHours,
			}
			if cmd.Flags().Changed("title") {
				m.Title = &title
			}
			if cmd.Flags().Changed("hours") {
				m.HoursPlanned = &hours
			}
			if m.Title == nil && m.DateStart == nil && m.DateFinish == nil && m.HoursPlanned == nil && !clearDates && !clearHours {
				return fmt.Errorf("nothing to update: pass --title, --start, --finish, --hours, --clear-dates or --clear-hours")
			}

			n, res, err := app.Wbs.UpdateTask(ctx, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %q: %s, %s\n",
				n.Title, formatter.FormatSpan(n.DateStart, n.DateFinish), formatter.FormatHours(n.HoursPlanned))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRollup(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().Var(&start, "start", "Start date (YYYY-MM-DD)")
	cmd.Flags().Var(&finish, "finish", "Finish date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Planned hours")
	cmd.Flags().BoolVar(&clearDates, "clear-dates", false, "Remove start and finish")
	cmd.Flags().BoolVar(&clearHours, "clear-hours", false, "Remove planned hours")
	cmd.Flags().StringVar(&project, "project", "", "Project used to resolve ID prefixes")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var project string
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a task with its cost and dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveNodeID(ctx, app, args[0], project)
			if err != nil {
				return err
			}
			ok, err := confirmRemoval(cmd, app, yes, fmt.Sprintf("Remove task %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			res, err := app.Wbs.DeleteTask(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", id)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRollup(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project used to resolve ID prefixes")
	addYesFlag(cmd, &yes)

	return cmd
}
