package repository

import (
	"context"

	"github.com/alexanderramin/planline/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// WbsNodeRepo satisfies rollup.NodeStore.
type WbsNodeRepo interface {
	Create(ctx context.Context, n *domain.WbsNode) error
	GetByID(ctx context.Context, id string) (*domain.WbsNode, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.WbsNode, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.WbsNode, error)
	ListTasks(ctx context.Context, projectID string) ([]*domain.WbsNode, error)
	Update(ctx context.Context, n *domain.WbsNode) error
	UpdateRollup(ctx context.Context, n *domain.WbsNode) error
	Delete(ctx context.Context, id string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, e *domain.DependencyEdge) error
	GetByID(ctx context.Context, id string) (*domain.DependencyEdge, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.DependencyEdge, error)
	UpdateKind(ctx context.Context, id string, kind domain.RelationKind, lagMinutes int) error
	Delete(ctx context.Context, id string) error
}

type TaskCostRepo interface {
	Upsert(ctx context.Context, projectID string, c *domain.TaskCost) error
	Get(ctx context.Context, taskID string) (*domain.TaskCost, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.TaskCost, error)
	Delete(ctx context.Context, taskID string) error
}

type ClaimRepo interface {
	Create(ctx context.Context, c *domain.ProgressClaim) error
	ListByProject(ctx context.Context, projectID string) ([]domain.ProgressClaim, error)
	Delete(ctx context.Context, id string) error
}
