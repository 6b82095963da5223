package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/planline/internal/cli/formatter"
	"github.com/alexanderramin/planline/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, shortID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project with its root WBS node",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Create(context.Background(), name, strings.ToUpper(shortID))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. BRG01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show project totals and its WBS tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Get(ctx, projectID)
			if err != nil {
				return err
			}
			tree, err := app.Wbs.Tree(ctx, projectID)
			if err != nil {
				return err
			}
			edges, err := app.Deps.ListEdges(ctx, projectID)
			if err != nil {
				return err
			}
			costs, err := app.Valuation.ListTaskCosts(ctx, projectID)
			if err != nil {
				return err
			}

			data := formatter.ProjectShowData{
				Project:   p,
				Root:      tree.Node,
				Tree:      formatter.TreeItems(tree),
				EdgeCount: len(edges),
			}
			tree.Walk(func(n *service.TreeNode, _ int) {
				if n.Node.IsLeaf() {
					data.TaskCount++
				}
			})
			for _, c := range costs {
				data.BAC += c.Cost
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectShow(data))
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a project with its tree, dependencies, costs and claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			ok, err := confirmRemoval(cmd, app, yes, fmt.Sprintf("Remove project %s and everything in it?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := app.Projects.Delete(ctx, projectID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", args[0])
			return nil
		},
	}

	addYesFlag(cmd, &yes)

	return cmd
}
