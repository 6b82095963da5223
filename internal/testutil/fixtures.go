package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/planline/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Date is a shorthand for a UTC calendar date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DatePtr is Date returning a pointer, for optional node fields.
func DatePtr(y int, m time.Month, d int) *time.Time {
	t := Date(y, m, d)
	return &t
}

func Float(v float64) *float64 { return &v }

// Project options
type ProjectOption func(*domain.Project)

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithRootNodeID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.RootNodeID = id
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

// NewTestProject builds a project with a fresh root node id. Use
// NewTestRootNode to build the matching project-kind node.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:         uuid.New().String(),
		ShortID:    defaultShortID(name),
		Name:       name,
		RootNodeID: uuid.New().String(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestRootNode returns the level-1 node that a project's tree hangs from.
func NewTestRootNode(p *domain.Project) *domain.WbsNode {
	now := time.Now().UTC()
	return &domain.WbsNode{
		ID:        p.RootNodeID,
		ProjectID: p.ID,
		Title:     p.Name,
		Kind:      domain.NodeProject,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WbsNode options
type NodeOption func(*domain.WbsNode)

func WithNodeKind(k domain.NodeKind) NodeOption {
	return func(n *domain.WbsNode) {
		n.Kind = k
	}
}

func WithParentID(id string) NodeOption {
	return func(n *domain.WbsNode) {
		n.ParentID = &id
	}
}

func WithNodeID(id string) NodeOption {
	return func(n *domain.WbsNode) {
		n.ID = id
	}
}

func WithDates(start, finish time.Time) NodeOption {
	return func(n *domain.WbsNode) {
		s, f := start, finish
		n.DateStart, n.DateFinish = &s, &f
	}
}

func WithHours(h float64) NodeOption {
	return func(n *domain.WbsNode) {
		n.HoursPlanned = &h
	}
}

func WithOrderIndex(i int) NodeOption {
	return func(n *domain.WbsNode) {
		n.OrderIndex = i
	}
}

// NewTestNode builds a task node unless WithNodeKind says otherwise.
func NewTestNode(projectID, title string, opts ...NodeOption) *domain.WbsNode {
	now := time.Now().UTC()
	n := &domain.WbsNode{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Kind:      domain.NodeTask,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Edge options
type EdgeOption func(*domain.DependencyEdge)

func WithRelation(k domain.RelationKind) EdgeOption {
	return func(e *domain.DependencyEdge) {
		e.Kind = k
	}
}

func WithLag(minutes int) EdgeOption {
	return func(e *domain.DependencyEdge) {
		e.LagMinutes = minutes
	}
}

func NewTestEdge(projectID, originID, dependentID string, opts ...EdgeOption) *domain.DependencyEdge {
	now := time.Now().UTC()
	e := &domain.DependencyEdge{
		ID:              uuid.New().String(),
		ProjectID:       projectID,
		OriginTaskID:    originID,
		DependentTaskID: dependentID,
		Kind:            domain.FinishToStart,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func NewTestClaim(projectID string, periodEnd time.Time, amount float64) *domain.ProgressClaim {
	return &domain.ProgressClaim{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		PeriodEnd: periodEnd,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}
