// Package rollup keeps non-leaf WBS nodes equal to the aggregate of their
// children by walking from a mutated node up to the root.
package rollup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/planline/internal/domain"
)

// DefaultMaxDepth bounds an ascent. The hierarchy has five levels by
// convention; the guard only matters if stored parent links are corrupt.
const DefaultMaxDepth = 16

// NodeStore is the persistence port the engine reads children from and
// writes rollups to.
type NodeStore interface {
	GetByID(ctx context.Context, id string) (*domain.WbsNode, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.WbsNode, error)
	UpdateRollup(ctx context.Context, n *domain.WbsNode) error
}

type StopReason string

const (
	StopRoot          StopReason = "root"
	StopMissingParent StopReason = "missing_parent"
	StopDepthGuard    StopReason = "depth_guard"
)

// Result describes one ascent.
type Result struct {
	Updated   []string
	Visited   int
	Stopped   StopReason
	StoppedAt string
}

type Engine struct {
	store    NodeStore
	logger   *slog.Logger
	maxDepth int
	now      func() time.Time
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(store NodeStore, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RecalcAncestors recomputes every ancestor of nodeID, nearest first. The node
// itself must exist. A missing ancestor ends the walk without an error since
// the levels already written are still correct.
func (e *Engine) RecalcAncestors(ctx context.Context, kind domain.NodeKind, nodeID string) (Result, error) {
	n, err := e.store.GetByID(ctx, nodeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Result{}, &domain.NotFoundError{Entity: "wbs node", ID: nodeID}
		}
		return Result{}, fmt.Errorf("loading node %s: %w", nodeID, err)
	}
	if n.Kind != kind {
		e.logger.WarnContext(ctx, "rollup kind mismatch",
			"node_id", nodeID, "expected", string(kind), "stored", string(n.Kind))
	}
	if n.ParentID == nil {
		return Result{Stopped: StopRoot, StoppedAt: n.ID}, nil
	}
	return e.RecalcFrom(ctx, *n.ParentID)
}

// RecalcFrom recomputes parentID and then each of its ancestors. It is used
// after a leaf is deleted, when only the former parent is known.
func (e *Engine) RecalcFrom(ctx context.Context, parentID string) (Result, error) {
	var res Result
	current := parentID
	for {
		if res.Visited >= e.maxDepth {
			e.logger.WarnContext(ctx, "rollup depth guard reached",
				"node_id", current, "max_depth", e.maxDepth)
			res.Stopped, res.StoppedAt = StopDepthGuard, current
			return res, nil
		}

		parent, err := e.store.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				e.logger.WarnContext(ctx, "rollup stopped at missing node", "node_id", current)
				res.Stopped, res.StoppedAt = StopMissingParent, current
				return res, nil
			}
			return res, fmt.Errorf("loading ancestor %s: %w", current, err)
		}
		res.Visited++

		if err := e.recalcNode(ctx, parent, &res); err != nil {
			return res, err
		}

		if parent.ParentID == nil {
			res.Stopped, res.StoppedAt = StopRoot, parent.ID
			return res, nil
		}
		current = *parent.ParentID
	}
}

// RecalcSubtree recomputes every non-leaf node under rootID, children before
// parents. Used after bulk loads where no single leaf mutation applies.
func (e *Engine) RecalcSubtree(ctx context.Context, rootID string) (Result, error) {
	var res Result
	root, err := e.store.GetByID(ctx, rootID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return res, &domain.NotFoundError{Entity: "wbs node", ID: rootID}
		}
		return res, fmt.Errorf("loading root %s: %w", rootID, err)
	}

	type entry struct {
		node  *domain.WbsNode
		depth int
	}
	order := []entry{{node: root}}
	for i := 0; i < len(order); i++ {
		cur := order[i]
		if cur.node.IsLeaf() {
			continue
		}
		if cur.depth >= e.maxDepth {
			e.logger.WarnContext(ctx, "rollup depth guard reached", "node_id", cur.node.ID, "max_depth", e.maxDepth)
			res.Stopped, res.StoppedAt = StopDepthGuard, cur.node.ID
			continue
		}
		children, err := e.store.ListChildren(ctx, cur.node.ID)
		if err != nil {
			return res, fmt.Errorf("listing children of %s: %w", cur.node.ID, err)
		}
		for _, c := range children {
			order = append(order, entry{node: c, depth: cur.depth + 1})
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		n := order[i].node
		if n.IsLeaf() {
			continue
		}
		res.Visited++
		if err := e.recalcNode(ctx, n, &res); err != nil {
			return res, err
		}
	}
	if res.Stopped == "" {
		res.Stopped, res.StoppedAt = StopRoot, root.ID
	}
	return res, nil
}

// recalcNode writes one node from its children, at most one update.
func (e *Engine) recalcNode(ctx context.Context, n *domain.WbsNode, res *Result) error {
	children, err := e.store.ListChildren(ctx, n.ID)
	if err != nil {
		return fmt.Errorf("listing children of %s: %w", n.ID, err)
	}
	agg := AggregateChildren(children)
	if !agg.ApplyTo(n, e.now()) {
		e.logger.DebugContext(ctx, "rollup skipped node without contributing children",
			"node_id", n.ID, "children", len(children))
		return nil
	}
	if err := e.store.UpdateRollup(ctx, n); err != nil {
		return fmt.Errorf("writing rollup for %s: %w", n.ID, err)
	}
	res.Updated = append(res.Updated, n.ID)
	return nil
}
