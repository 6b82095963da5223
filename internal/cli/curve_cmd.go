package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planline/internal/app"
	"github.com/alexanderramin/planline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCurveCmd(a *App) *cobra.Command {
	var from, to dateFlag
	var maxWeeks int

	cmd := &cobra.Command{
		Use:   "curve PROJECT",
		Short: "Weekly planned vs earned value with SPI",
		Long: `Buckets task costs into Monday-Sunday weeks as planned value and
progress claims as earned value, then reports PV, EV, SV and SPI at the
last week with earned value. Without --from/--to the range spans all
task costs and claims.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			req := app.NewCurveRequest(projectID)
			req.RangeStart, req.RangeEnd = from.Value(), to.Value()
			if maxWeeks > 0 {
				req.MaxWeeks = maxWeeks
			}

			resp, err := a.Curve.Compute(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCurve(resp))
			return nil
		},
	}

	cmd.Flags().Var(&from, "from", "Range start (YYYY-MM-DD)")
	cmd.Flags().Var(&to, "to", "Range end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&maxWeeks, "max-weeks", 0, "Lower the week cap for this curve")

	return cmd
}
