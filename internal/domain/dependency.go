package domain

import "time"

// DependencyEdge is a directed relation origin -> dependent between two tasks
// of the same project.
type DependencyEdge struct {
	ID              string
	ProjectID       string
	OriginTaskID    string
	DependentTaskID string
	Kind            RelationKind
	LagMinutes      int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (e *DependencyEdge) Validate() error {
	if e.OriginTaskID == "" || e.DependentTaskID == "" {
		return validationf("edge", "origin and dependent task ids are required")
	}
	if !e.Kind.Valid() {
		return validationf("relation", "unknown relation kind %q", e.Kind)
	}
	if e.LagMinutes < 0 {
		return validationf("lag", "lag must be >= 0 minutes, got %d", e.LagMinutes)
	}
	return nil
}
