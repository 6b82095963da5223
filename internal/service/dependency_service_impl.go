package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/planline/internal/db"
	"github.com/alexanderramin/planline/internal/depgraph"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/alexanderramin/planline/internal/repository"
	"github.com/google/uuid"
)

type dependencyService struct {
	edges repository.DependencyRepo
	nodes repository.WbsNodeRepo
	uow   db.UnitOfWork
	opts  options
}

func NewDependencyService(edges repository.DependencyRepo, nodes repository.WbsNodeRepo, uow db.UnitOfWork, opts ...Option) DependencyService {
	return &dependencyService{edges: edges, nodes: nodes, uow: uow, opts: newOptions(opts)}
}

// AddEdge inserts origin -> dependent after checking, under the project lock,
// that no existing path dependent -> ... -> origin would turn it into a cycle.
// A rejected edge leaves the stored graph untouched.
func (s *dependencyService) AddEdge(ctx context.Context, originID, dependentID string, kind domain.RelationKind, lagMinutes int) (edge *domain.DependencyEdge, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"origin": originID, "dependent": dependentID, "relation": kind.Short()}
	defer s.opts.observe(ctx, "add-dependency", startedAt, fields, &err)

	now := s.opts.now()
	e := &domain.DependencyEdge{
		ID:              uuid.New().String(),
		OriginTaskID:    originID,
		DependentTaskID: dependentID,
		Kind:            kind,
		LagMinutes:      lagMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err = e.Validate(); err != nil {
		return nil, err
	}

	origin, err := s.task(ctx, s.nodes, originID)
	if err != nil {
		return nil, err
	}
	e.ProjectID = origin.ProjectID
	fields["project_id"] = e.ProjectID

	err = s.uow.WithinScopedTx(ctx, e.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteWbsNodeRepo(tx)
		txEdges := repository.NewSQLiteDependencyRepo(tx)

		if _, err := s.task(ctx, txNodes, originID); err != nil {
			return err
		}
		dependent, err := s.task(ctx, txNodes, dependentID)
		if err != nil {
			return err
		}
		if dependent.ProjectID != e.ProjectID {
			return &domain.ValidationError{Field: "dependent", Message: "tasks belong to different projects"}
		}

		existing, err := txEdges.ListByProject(ctx, e.ProjectID)
		if err != nil {
			return err
		}
		g := depgraph.FromEdges(existing)
		if g.HasEdge(originID, dependentID) {
			return &domain.ValidationError{Field: "edge", Message: fmt.Sprintf("%s -> %s already exists", originID, dependentID)}
		}
		if err := g.CheckEdge(originID, dependentID, kind); err != nil {
			var cyc *domain.CyclicDependencyError
			if errors.As(err, &cyc) {
				s.opts.logger.InfoContext(ctx, "dependency rejected",
					"origin", originID, "dependent", dependentID, "path_len", len(cyc.Path))
			}
			return err
		}
		return txEdges.Create(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEdge changes relation kind and lag only. Topology is unchanged, so no
// cycle check is needed.
func (s *dependencyService) UpdateEdge(ctx context.Context, id string, kind domain.RelationKind, lagMinutes int) (edge *domain.DependencyEdge, err error) {
	startedAt := time.Now().UTC()
	defer s.opts.observe(ctx, "update-dependency", startedAt, map[string]any{"edge_id": id}, &err)

	current, err := s.edge(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Kind, current.LagMinutes = kind, lagMinutes
	if err = current.Validate(); err != nil {
		return nil, err
	}
	err = s.uow.WithinScopedTx(ctx, current.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteDependencyRepo(tx).UpdateKind(ctx, id, kind, lagMinutes)
	})
	if err != nil {
		return nil, err
	}
	return s.edge(ctx, id)
}

func (s *dependencyService) RemoveEdge(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer s.opts.observe(ctx, "remove-dependency", startedAt, map[string]any{"edge_id": id}, &err)

	current, err := s.edge(ctx, id)
	if err != nil {
		return err
	}
	return s.uow.WithinScopedTx(ctx, current.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteDependencyRepo(tx).Delete(ctx, id)
	})
}

func (s *dependencyService) GetEdge(ctx context.Context, id string) (*domain.DependencyEdge, error) {
	return s.edge(ctx, id)
}

func (s *dependencyService) ListEdges(ctx context.Context, projectID string) ([]domain.DependencyEdge, error) {
	return s.edges.ListByProject(ctx, projectID)
}

// Order includes tasks without any edge; they sort by id among the roots.
func (s *dependencyService) Order(ctx context.Context, projectID string) ([]string, error) {
	edges, err := s.edges.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.nodes.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	g := depgraph.FromEdges(edges)
	for _, t := range tasks {
		g.AddNode(t.ID)
	}
	order, ok := g.TopoOrder()
	if !ok {
		// Unreachable through AddEdge; only a hand-edited database gets here.
		return nil, fmt.Errorf("stored dependencies of project %s contain a cycle: %w", projectID, domain.ErrCyclicDependency)
	}
	return order, nil
}

func (s *dependencyService) task(ctx context.Context, nodes repository.WbsNodeRepo, id string) (*domain.WbsNode, error) {
	n, err := nodes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "task", ID: id}
		}
		return nil, err
	}
	if !n.IsLeaf() {
		return nil, &domain.ValidationError{Field: "task", Message: fmt.Sprintf("%s is a %s; dependencies link tasks only", id, n.Kind)}
	}
	return n, nil
}

func (s *dependencyService) edge(ctx context.Context, id string) (*domain.DependencyEdge, error) {
	e, err := s.edges.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "dependency", ID: id}
		}
		return nil, err
	}
	return e, nil
}
