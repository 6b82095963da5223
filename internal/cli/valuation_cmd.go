package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planline/internal/cli/formatter"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/spf13/cobra"
)

func newCostCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Manage planned task costs",
	}

	cmd.AddCommand(
		newCostSetCmd(app),
		newCostListCmd(app),
	)

	return cmd
}

func newCostSetCmd(app *App) *cobra.Command {
	var project string
	var amount float64
	var start, finish dateFlag

	cmd := &cobra.Command{
		Use:   "set TASK",
		Short: "Set the cost and cost window of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveNodeID(ctx, app, args[0], project)
			if err != nil {
				return err
			}
			c := domain.TaskCost{TaskID: id, Start: *start.Value(), Finish: *finish.Value(), Cost: amount}
			if err := app.Valuation.SetTaskCost(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set cost %s for task %s (%s → %s)\n",
				formatter.FormatAmount(c.Cost), id, c.Start.Format(dateLayout), c.Finish.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().Var(&start, "start", "Cost window start (YYYY-MM-DD)")
	cmd.Flags().Var(&finish, "finish", "Cost window finish (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Planned cost")
	cmd.Flags().StringVar(&project, "project", "", "Project used to resolve ID prefixes")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("finish")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newCostListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List task costs of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			costs, err := app.Valuation.ListTaskCosts(ctx, projectID)
			if err != nil {
				return err
			}
			if len(costs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No task costs.")
				return nil
			}
			titles, err := taskTitles(ctx, app, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCostList(costs, titles))
			return nil
		},
	}
}

func newClaimCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Manage progress claims (earned value)",
	}

	cmd.AddCommand(
		newClaimAddCmd(app),
		newClaimListCmd(app),
		newClaimRemoveCmd(app),
	)

	return cmd
}

func newClaimAddCmd(app *App) *cobra.Command {
	var amount float64
	var note string
	var periodEnd dateFlag

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Book a progress claim at a period end date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c := &domain.ProgressClaim{ProjectID: projectID, PeriodEnd: *periodEnd.Value(), Amount: amount, Note: note}
			if err := app.Valuation.AddClaim(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added claim %s: %s at %s\n",
				c.ID, formatter.FormatAmount(c.Amount), c.PeriodEnd.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().Var(&periodEnd, "period-end", "Period end date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Claimed amount")
	cmd.Flags().StringVar(&note, "note", "", "Optional note")
	_ = cmd.MarkFlagRequired("period-end")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newClaimListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List progress claims of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			claims, err := app.Valuation.ListClaims(ctx, projectID)
			if err != nil {
				return err
			}
			if len(claims) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No progress claims.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatClaimList(claims))
			return nil
		},
	}
}

func newClaimRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a progress claim",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmRemoval(cmd, app, yes, fmt.Sprintf("Remove claim %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := app.Valuation.DeleteClaim(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed claim %s\n", args[0])
			return nil
		},
	}

	addYesFlag(cmd, &yes)

	return cmd
}
