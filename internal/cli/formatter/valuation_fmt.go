package formatter

import (
	"fmt"

	"github.com/alexanderramin/planline/internal/domain"
)

func FormatCostList(costs []domain.TaskCost, titles map[string]string) string {
	headers := []string{"TASK", "START", "FINISH", "COST"}
	rows := make([][]string, 0, len(costs)+1)
	var total float64
	for _, c := range costs {
		total += c.Cost
		rows = append(rows, []string{
			taskLabel(c.TaskID, titles),
			c.Start.Format(dateLayout),
			c.Finish.Format(dateLayout),
			FormatAmount(c.Cost),
		})
	}
	rows = append(rows, []string{Bold("Total"), "", "", Bold(FormatAmount(total))})
	return RenderBox("Task costs", RenderTable(headers, rows))
}

func FormatClaimList(claims []domain.ProgressClaim) string {
	headers := []string{"ID", "PERIOD END", "AMOUNT", "NOTE"}
	rows := make([][]string, 0, len(claims))
	var total float64
	for _, c := range claims {
		total += c.Amount
		note := c.Note
		if note == "" {
			note = Dim("--")
		}
		rows = append(rows, []string{
			TruncID(c.ID),
			c.PeriodEnd.Format(dateLayout),
			FormatAmount(c.Amount),
			note,
		})
	}
	table := RenderTable(headers, rows)
	return RenderBox("Progress claims", table+fmt.Sprintf("\n%s %s", Dim("Claimed to date:"), Bold(FormatAmount(total))))
}
