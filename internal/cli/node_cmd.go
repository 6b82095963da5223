package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planline/internal/cli/formatter"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/spf13/cobra"
)

func newNodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage structural WBS nodes (phases, work packages, activities)",
	}

	cmd.AddCommand(
		newNodeAddCmd(app),
		newNodeShowCmd(app),
		newNodeTreeCmd(app),
	)

	return cmd
}

func newNodeAddCmd(app *App) *cobra.Command {
	var parent, title, kindStr, project string
	var order int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a node under a parent; the kind defaults to the level below the parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			parentID, err := resolveParent(ctx, app, parent, project)
			if err != nil {
				return err
			}

			n := &domain.WbsNode{ParentID: &parentID, Title: title, OrderIndex: order}
			if kindStr != "" {
				if n.Kind, err = domain.ParseNodeKind(kindStr); err != nil {
					return err
				}
			} else {
				p, err := app.Wbs.GetNode(ctx, parentID)
				if err != nil {
					return err
				}
				kind, ok := p.Kind.ChildKind()
				if !ok {
					return fmt.Errorf("%s nodes cannot have children", p.Kind)
				}
				n.Kind = kind
			}
			if n.Kind == domain.NodeTask {
				return fmt.Errorf("tasks carry dates and hours; use 'planline task add'")
			}

			if err := app.Wbs.CreateNode(ctx, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q (%s)\n", n.Kind, n.Title, n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent node ID, or a project ID to add a phase under its root")
	cmd.Flags().StringVar(&title, "title", "", "Node title")
	cmd.Flags().StringVar(&kindStr, "kind", "", "phase|work_package|activity")
	cmd.Flags().IntVar(&order, "order", 0, "Sort position among siblings")
	cmd.Flags().StringVar(&project, "project", "", "Project used to resolve ID prefixes")
	_ = cmd.MarkFlagRequired("parent")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newNodeShowCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a node with its direct children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveNodeID(ctx, app, args[0], project)
			if err != nil {
				return err
			}
			n, err := app.Wbs.GetNode(ctx, id)
			if err != nil {
				return err
			}
			children, err := app.Wbs.ListChildren(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNode(n, children))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project used to resolve ID prefixes")

	return cmd
}

func newNodeTreeCmd(app *App) *cobra.Command {
	var recalc bool

	cmd := &cobra.Command{
		Use:   "tree PROJECT",
		Short: "Print the WBS tree of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if recalc {
				res, err := app.Wbs.Recalc(ctx, projectID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRollup(res))
			}
			tree, err := app.Wbs.Tree(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(formatter.TreeItems(tree)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&recalc, "recalc", false, "Recompute every rollup before printing")

	return cmd
}

// resolveParent accepts a node reference, or a project reference meaning
// that project's root node.
func resolveParent(ctx context.Context, app *App, parent, project string) (string, error) {
	id, err := resolveNodeID(ctx, app, parent, project)
	if err == nil {
		return id, nil
	}
	if p, pErr := app.Projects.Get(ctx, parent); pErr == nil {
		return p.RootNodeID, nil
	}
	return "", err
}
