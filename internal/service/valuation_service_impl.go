package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/planline/internal/db"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/alexanderramin/planline/internal/repository"
	"github.com/google/uuid"
)

type valuationService struct {
	costs  repository.TaskCostRepo
	claims repository.ClaimRepo
	nodes  repository.WbsNodeRepo
	uow    db.UnitOfWork
	opts   options
}

func NewValuationService(
	costs repository.TaskCostRepo,
	claims repository.ClaimRepo,
	nodes repository.WbsNodeRepo,
	uow db.UnitOfWork,
	opts ...Option,
) ValuationService {
	return &valuationService{costs: costs, claims: claims, nodes: nodes, uow: uow, opts: newOptions(opts)}
}

// SetTaskCost stores the planned cost window of a task, replacing any earlier one.
func (s *valuationService) SetTaskCost(ctx context.Context, c domain.TaskCost) (err error) {
	startedAt := time.Now().UTC()
	defer s.opts.observe(ctx, "set-task-cost", startedAt, map[string]any{"task_id": c.TaskID, "cost": c.Cost}, &err)

	if err = c.Validate(); err != nil {
		return err
	}
	task, err := s.nodes.GetByID(ctx, c.TaskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = &domain.NotFoundError{Entity: "task", ID: c.TaskID}
		}
		return err
	}
	if !task.IsLeaf() {
		err = &domain.ValidationError{Field: "task", Message: fmt.Sprintf("%s is a %s; costs attach to tasks only", c.TaskID, task.Kind)}
		return err
	}
	return s.uow.WithinScopedTx(ctx, task.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskCostRepo(tx).Upsert(ctx, task.ProjectID, &c)
	})
}

func (s *valuationService) ListTaskCosts(ctx context.Context, projectID string) ([]domain.TaskCost, error) {
	return s.costs.ListByProject(ctx, projectID)
}

func (s *valuationService) AddClaim(ctx context.Context, c *domain.ProgressClaim) (err error) {
	startedAt := time.Now().UTC()
	defer s.opts.observe(ctx, "add-claim", startedAt, map[string]any{"project_id": c.ProjectID, "amount": c.Amount}, &err)

	if c.ProjectID == "" {
		return &domain.ValidationError{Field: "project", Message: "project is required"}
	}
	if err = c.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = s.opts.now()
	return s.uow.WithinScopedTx(ctx, c.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, c.ProjectID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return &domain.NotFoundError{Entity: "project", ID: c.ProjectID}
			}
			return err
		}
		return repository.NewSQLiteClaimRepo(tx).Create(ctx, c)
	})
}

func (s *valuationService) ListClaims(ctx context.Context, projectID string) ([]domain.ProgressClaim, error) {
	return s.claims.ListByProject(ctx, projectID)
}

func (s *valuationService) DeleteClaim(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer s.opts.observe(ctx, "delete-claim", startedAt, map[string]any{"claim_id": id}, &err)

	err = s.claims.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		err = &domain.NotFoundError{Entity: "claim", ID: id}
	}
	return err
}
