package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planline/internal/db"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/alexanderramin/planline/internal/repository"
	"github.com/alexanderramin/planline/internal/rollup"
	"github.com/google/uuid"
)

// TreeNode is a WbsNode with its children resolved, in order.
type TreeNode struct {
	Node     *domain.WbsNode
	Children []*TreeNode
}

// Walk visits the tree depth-first, parents before children.
func (t *TreeNode) Walk(fn func(n *TreeNode, depth int)) {
	var visit func(n *TreeNode, depth int)
	visit = func(n *TreeNode, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(t, 0)
}

type wbsService struct {
	nodes    repository.WbsNodeRepo
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	opts     options
}

func NewWbsService(nodes repository.WbsNodeRepo, projects repository.ProjectRepo, uow db.UnitOfWork, opts ...Option) WbsService {
	return &wbsService{nodes: nodes, projects: projects, uow: uow, opts: newOptions(opts)}
}

// CreateNode adds a structural (non-task) node. Its kind must be the one
// expected directly below the parent. No rollup runs: an empty node
// contributes nothing.
func (s *wbsService) CreateNode(ctx context.Context, n *domain.WbsNode) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"kind": string(n.Kind)}
	defer s.opts.observe(ctx, "create-node", startedAt, fields, &err)

	if n.Kind.IsLeaf() {
		return &domain.ValidationError{Field: "kind", Message: "use CreateTask for task nodes"}
	}
	if n.Kind == domain.NodeProject {
		return &domain.ValidationError{Field: "kind", Message: "project nodes are created with the project"}
	}
	parent, err := s.prepareChild(ctx, n)
	if err != nil {
		return err
	}
	// Rolled-up fields start empty; only children fill them.
	n.DateStart, n.DateFinish, n.HoursPlanned = nil, nil, nil
	fields["node_id"] = n.ID

	return s.uow.WithinScopedTx(ctx, parent.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteWbsNodeRepo(tx).Create(ctx, n)
	})
}

// CreateTask inserts a task and recomputes every ancestor in one transaction.
func (s *wbsService) CreateTask(ctx context.Context, n *domain.WbsNode) (res rollup.Result, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer s.opts.observe(ctx, "create-task", startedAt, fields, &err)

	if n.Kind == "" {
		n.Kind = domain.NodeTask
	}
	if !n.Kind.IsLeaf() {
		return res, &domain.ValidationError{Field: "kind", Message: fmt.Sprintf("%s is not a task kind", n.Kind)}
	}
	parent, err := s.prepareChild(ctx, n)
	if err != nil {
		return res, err
	}
	fields["node_id"] = n.ID

	err = s.uow.WithinScopedTx(ctx, parent.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteWbsNodeRepo(tx)
		if err := txNodes.Create(ctx, n); err != nil {
			return err
		}
		var err error
		res, err = s.opts.rollupEngine(txNodes).RecalcAncestors(ctx, domain.NodeTask, n.ID)
		return err
	})
	fields["updated"] = len(res.Updated)
	return res, err
}

// UpdateTask applies a leaf mutation. Non-task nodes are rejected: their
// values are owned by the rollup.
func (s *wbsService) UpdateTask(ctx context.Context, m domain.LeafMutation) (node *domain.WbsNode, res rollup.Result, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"node_id": m.NodeID}
	defer s.opts.observe(ctx, "update-task", startedAt, fields, &err)

	current, err := s.getNode(ctx, s.nodes, m.NodeID)
	if err != nil {
		return nil, res, err
	}
	if !current.IsLeaf() {
		err = &domain.ValidationError{Field: "node", Message: fmt.Sprintf("%s is a %s", m.NodeID, current.Kind), Err: domain.ErrNotDirectlyEdited}
		return nil, res, err
	}

	err = s.uow.WithinScopedTx(ctx, current.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteWbsNodeRepo(tx)
		n, err := s.getNode(ctx, txNodes, m.NodeID)
		if err != nil {
			return err
		}
		if err := m.Apply(n, s.opts.now()); err != nil {
			return err
		}
		if err := txNodes.Update(ctx, n); err != nil {
			return err
		}
		node = n
		res, err = s.opts.rollupEngine(txNodes).RecalcAncestors(ctx, domain.NodeTask, n.ID)
		return err
	})
	if err != nil {
		return nil, res, err
	}
	fields["updated"] = len(res.Updated)
	return node, res, nil
}

// DeleteTask removes a task (its cost row and edges cascade) and recomputes
// what used to be its ancestors.
func (s *wbsService) DeleteTask(ctx context.Context, id string) (res rollup.Result, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"node_id": id}
	defer s.opts.observe(ctx, "delete-task", startedAt, fields, &err)

	current, err := s.getNode(ctx, s.nodes, id)
	if err != nil {
		return res, err
	}
	if !current.IsLeaf() {
		err = &domain.ValidationError{Field: "node", Message: fmt.Sprintf("%s is a %s", id, current.Kind), Err: domain.ErrNotDirectlyEdited}
		return res, err
	}

	err = s.uow.WithinScopedTx(ctx, current.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteWbsNodeRepo(tx)
		n, err := s.getNode(ctx, txNodes, id)
		if err != nil {
			return err
		}
		if err := txNodes.Delete(ctx, id); err != nil {
			return err
		}
		if n.ParentID == nil {
			return nil
		}
		res, err = s.opts.rollupEngine(txNodes).RecalcFrom(ctx, *n.ParentID)
		return err
	})
	fields["updated"] = len(res.Updated)
	return res, err
}

func (s *wbsService) GetNode(ctx context.Context, id string) (*domain.WbsNode, error) {
	return s.getNode(ctx, s.nodes, id)
}

func (s *wbsService) ListChildren(ctx context.Context, parentID string) ([]*domain.WbsNode, error) {
	if _, err := s.getNode(ctx, s.nodes, parentID); err != nil {
		return nil, err
	}
	return s.nodes.ListChildren(ctx, parentID)
}

// Tree loads the whole project in one query and links it in memory.
func (s *wbsService) Tree(ctx context.Context, projectID string) (*TreeNode, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "project", ID: projectID}
		}
		return nil, err
	}
	nodes, err := s.nodes.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*TreeNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = &TreeNode{Node: n}
	}
	// ListByProject orders by level then order_index, so children are
	// appended to their parent in display order.
	for _, n := range nodes {
		if n.ParentID == nil {
			continue
		}
		if parent, ok := byID[*n.ParentID]; ok {
			parent.Children = append(parent.Children, byID[n.ID])
		}
	}
	root, ok := byID[p.RootNodeID]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "wbs node", ID: p.RootNodeID}
	}
	return root, nil
}

// Recalc recomputes every non-leaf node of the project from the bottom up.
func (s *wbsService) Recalc(ctx context.Context, projectID string) (res rollup.Result, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID}
	defer s.opts.observe(ctx, "recalc-project", startedAt, fields, &err)

	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = &domain.NotFoundError{Entity: "project", ID: projectID}
		}
		return res, err
	}
	err = s.uow.WithinScopedTx(ctx, p.ID, func(ctx context.Context, tx db.DBTX) error {
		var err error
		res, err = s.opts.rollupEngine(repository.NewSQLiteWbsNodeRepo(tx)).RecalcSubtree(ctx, p.RootNodeID)
		return err
	})
	fields["updated"] = len(res.Updated)
	return res, err
}

// prepareChild validates n against its parent and fills ids and timestamps.
func (s *wbsService) prepareChild(ctx context.Context, n *domain.WbsNode) (*domain.WbsNode, error) {
	if n.ParentID == nil || *n.ParentID == "" {
		return nil, &domain.ValidationError{Field: "parent", Message: "parent node is required"}
	}
	parent, err := s.getNode(ctx, s.nodes, *n.ParentID)
	if err != nil {
		return nil, err
	}
	want, ok := parent.Kind.ChildKind()
	if !ok || want != n.Kind {
		return nil, &domain.ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("a %s cannot be placed under a %s", n.Kind, parent.Kind),
		}
	}

	n.Title = strings.TrimSpace(n.Title)
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.ProjectID = parent.ProjectID
	now := s.opts.now()
	n.CreatedAt, n.UpdatedAt = now, now
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return parent, nil
}

func (s *wbsService) getNode(ctx context.Context, nodes repository.WbsNodeRepo, id string) (*domain.WbsNode, error) {
	n, err := nodes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "wbs node", ID: id}
		}
		return nil, err
	}
	return n, nil
}
