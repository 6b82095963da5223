package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planline/internal/cli/formatter"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage task dependencies",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepUpdateCmd(app),
		newDepRemoveCmd(app),
		newDepListCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var project string
	var lag int
	relation := newRelationFlag(domain.FinishToStart)

	cmd := &cobra.Command{
		Use:   "add ORIGIN DEPENDENT",
		Short: "Make DEPENDENT depend on ORIGIN; rejected if it would close a cycle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			origin, err := resolveNodeID(ctx, app, args[0], project)
			if err != nil {
				return err
			}
			dependent, err := resolveNodeID(ctx, app, args[1], project)
			if err != nil {
				return err
			}
			e, err := app.Deps.AddEdge(ctx, origin, dependent, relation.kind, lag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added dependency %s (%s)\n", e.ID, e.Kind.Short())
			return nil
		},
	}

	cmd.Flags().VarP(relation, "type", "t", "Relation: FS|SS|FF|SF")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in minutes")
	cmd.Flags().StringVar(&project, "project", "", "Project used to resolve ID prefixes")

	return cmd
}

func newDepUpdateCmd(app *App) *cobra.Command {
	var project string
	var lag int
	relation := newRelationFlag(domain.FinishToStart)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the relation type or lag of a dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveEdgeID(ctx, app, args[0], project)
			if err != nil {
				return err
			}
			current, err := app.Deps.GetEdge(ctx, id)
			if err != nil {
				return err
			}
			kind, lagMin := current.Kind, current.LagMinutes
			if cmd.Flags().Changed("type") {
				kind = relation.kind
			}
			if cmd.Flags().Changed("lag") {
				lagMin = lag
			}
			e, err := app.Deps.UpdateEdge(ctx, id, kind, lagMin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated dependency %s: %s, lag %s\n",
				e.ID, e.Kind.Short(), formatter.FormatLag(e.LagMinutes))
			return nil
		},
	}

	cmd.Flags().VarP(relation, "type", "t", "Relation: FS|SS|FF|SF")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in minutes")
	cmd.Flags().StringVar(&project, "project", "", "Project used to resolve ID prefixes")

	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	var project string
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveEdgeID(ctx, app, args[0], project)
			if err != nil {
				return err
			}
			ok, err := confirmRemoval(cmd, app, yes, fmt.Sprintf("Remove dependency %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := app.Deps.RemoveEdge(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed dependency %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project used to resolve ID prefixes")
	addYesFlag(cmd, &yes)

	return cmd
}

func newDepListCmd(app *App) *cobra.Command {
	var order bool

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List dependencies of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			titles, err := taskTitles(ctx, app, projectID)
			if err != nil {
				return err
			}

			if order {
				ids, err := app.Deps.Order(ctx, projectID)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOrder(ids, titles))
				return nil
			}

			edges, err := app.Deps.ListEdges(ctx, projectID)
			if err != nil {
				return err
			}
			if len(edges) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No dependencies.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEdgeList(edges, titles))
			return nil
		},
	}

	cmd.Flags().BoolVar(&order, "order", false, "Print tasks in dependency order instead")

	return cmd
}
