package domain

import (
	"math"
	"time"
)

// TaskCost is the planned cost of one task spread over [Start, Finish].
type TaskCost struct {
	TaskID string
	Start  time.Time
	Finish time.Time
	Cost   float64
}

// ProgressClaim is a periodic earned-value claim booked at PeriodEnd.
type ProgressClaim struct {
	ID        string
	ProjectID string
	PeriodEnd time.Time
	Amount    float64
	Note      string
	CreatedAt time.Time
}

func (c *TaskCost) Validate() error {
	if math.IsNaN(c.Cost) || math.IsInf(c.Cost, 0) || c.Cost < 0 {
		return validationf("cost", "cost must be a nonnegative number, got %g", c.Cost)
	}
	if c.Finish.Before(c.Start) {
		return validationf("finish", "finish %s is before start %s",
			c.Finish.Format("2006-01-02"), c.Start.Format("2006-01-02"))
	}
	return nil
}

func (c *ProgressClaim) Validate() error {
	if math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) || c.Amount < 0 {
		return validationf("amount", "amount must be a nonnegative number, got %g", c.Amount)
	}
	if c.PeriodEnd.IsZero() {
		return validationf("period_end", "period end date is required")
	}
	return nil
}
