package domain

import (
	"math"
	"time"
)

// WbsNode is one node of the work-breakdown hierarchy. Only task nodes carry
// user-entered dates and hours; every other node's DateStart, DateFinish and
// HoursPlanned are written exclusively by the rollup engine.
type WbsNode struct {
	ID           string
	ProjectID    string
	ParentID     *string
	Title        string
	Kind         NodeKind
	OrderIndex   int
	DateStart    *time.Time
	DateFinish   *time.Time
	HoursPlanned *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (n *WbsNode) Level() int {
	return n.Kind.Level()
}

func (n *WbsNode) IsLeaf() bool {
	return n.Kind.IsLeaf()
}

func (n *WbsNode) IsRoot() bool {
	return n.ParentID == nil
}

// Validate checks the node's own fields. It does not check parentage.
func (n *WbsNode) Validate() error {
	if n.Kind.Level() == 0 {
		return validationf("kind", "unknown node kind %q", n.Kind)
	}
	if n.Title == "" {
		return validationf("title", "title is required")
	}
	if n.HoursPlanned != nil {
		h := *n.HoursPlanned
		if math.IsNaN(h) || math.IsInf(h, 0) {
			return validationf("hours", "planned hours must be a finite number, got %g", h)
		}
		if h < 0 {
			return validationf("hours", "planned hours must be nonnegative, got %g", h)
		}
	}
	if n.DateStart != nil && n.DateFinish != nil && n.DateFinish.Before(*n.DateStart) {
		return validationf("finish", "finish %s is before start %s",
			n.DateFinish.Format("2006-01-02"), n.DateStart.Format("2006-01-02"))
	}
	return nil
}

// LeafMutation carries the editable fields of a task. Nil fields are left unchanged
// unless the matching Clear flag is set.
type LeafMutation struct {
	NodeID       string
	Title        *string
	DateStart    *time.Time
	DateFinish   *time.Time
	HoursPlanned *float64
	ClearDates   bool
	ClearHours   bool
}

// Apply copies the mutation onto a task node.
func (m LeafMutation) Apply(n *WbsNode, now time.Time) error {
	if !n.IsLeaf() {
		return ErrNotDirectlyEdited
	}
	if m.Title != nil {
		n.Title = *m.Title
	}
	if m.ClearDates {
		n.DateStart, n.DateFinish = nil, nil
	}
	if m.DateStart != nil {
		d := *m.DateStart
		n.DateStart = &d
	}
	if m.DateFinish != nil {
		d := *m.DateFinish
		n.DateFinish = &d
	}
	if m.ClearHours {
		n.HoursPlanned = nil
	}
	if m.HoursPlanned != nil {
		h := *m.HoursPlanned
		n.HoursPlanned = &h
	}
	n.UpdatedAt = now
	return n.Validate()
}
