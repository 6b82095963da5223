package service

import (
	"context"

	"github.com/alexanderramin/planline/internal/app"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/alexanderramin/planline/internal/importer"
	"github.com/alexanderramin/planline/internal/rollup"
)

type ProjectService interface {
	Create(ctx context.Context, name, shortID string) (*domain.Project, error)
	// Get resolves a short id (case-insensitive) or a full id.
	Get(ctx context.Context, idOrShortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// WbsService edits the work-breakdown tree. Only tasks are edited directly;
// every task mutation rolls its ancestors up in the same transaction.
type WbsService interface {
	CreateNode(ctx context.Context, n *domain.WbsNode) error
	CreateTask(ctx context.Context, n *domain.WbsNode) (rollup.Result, error)
	UpdateTask(ctx context.Context, m domain.LeafMutation) (*domain.WbsNode, rollup.Result, error)
	DeleteTask(ctx context.Context, id string) (rollup.Result, error)
	GetNode(ctx context.Context, id string) (*domain.WbsNode, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.WbsNode, error)
	Tree(ctx context.Context, projectID string) (*TreeNode, error)
	Recalc(ctx context.Context, projectID string) (rollup.Result, error)
}

type DependencyService interface {
	AddEdge(ctx context.Context, originID, dependentID string, kind domain.RelationKind, lagMinutes int) (*domain.DependencyEdge, error)
	UpdateEdge(ctx context.Context, id string, kind domain.RelationKind, lagMinutes int) (*domain.DependencyEdge, error)
	RemoveEdge(ctx context.Context, id string) error
	GetEdge(ctx context.Context, id string) (*domain.DependencyEdge, error)
	ListEdges(ctx context.Context, projectID string) ([]domain.DependencyEdge, error)
	// Order returns the project's task ids with every origin before its dependents.
	Order(ctx context.Context, projectID string) ([]string, error)
}

type ValuationService interface {
	SetTaskCost(ctx context.Context, c domain.TaskCost) error
	ListTaskCosts(ctx context.Context, projectID string) ([]domain.TaskCost, error)
	AddClaim(ctx context.Context, c *domain.ProgressClaim) error
	ListClaims(ctx context.Context, projectID string) ([]domain.ProgressClaim, error)
	DeleteClaim(ctx context.Context, id string) error
}

type CurveService interface {
	Compute(ctx context.Context, req app.CurveRequest) (*app.CurveResponse, error)
}

type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*app.ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema) (*app.ImportResult, error)
}
