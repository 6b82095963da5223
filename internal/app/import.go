package app

import "github.com/alexanderramin/planline/internal/domain"

// ImportResult holds the outcome of a plan import.
type ImportResult struct {
	Project    *domain.Project
	NodeCount  int
	TaskCount  int
	EdgeCount  int
	CostCount  int
	ClaimCount int
	RolledUp   int
}
