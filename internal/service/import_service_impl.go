package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/planline/internal/app"
	"github.com/alexanderramin/planline/internal/db"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/alexanderramin/planline/internal/importer"
	"github.com/alexanderramin/planline/internal/repository"
)

type importService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	opts     options
}

func NewImportService(projects repository.ProjectRepo, uow db.UnitOfWork, opts ...Option) ImportService {
	return &importService{projects: projects, uow: uow, opts: newOptions(opts)}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*app.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema)
}

// ImportSchema writes a whole plan in one transaction and rolls the tree up
// from the bottom before committing.
func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema) (result *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"short_id": schema.Project.ShortID}
	defer s.opts.observe(ctx, "import-plan", startedAt, fields, &err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	plan, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}
	if _, lookupErr := s.projects.GetByShortID(ctx, plan.Project.ShortID); lookupErr == nil {
		err = &domain.ValidationError{Field: "short_id", Message: fmt.Sprintf("%s is already in use", plan.Project.ShortID)}
		return nil, err
	}

	result = &app.ImportResult{
		Project:    plan.Project,
		NodeCount:  len(plan.Nodes),
		TaskCount:  plan.TaskCount(),
		EdgeCount:  len(plan.Edges),
		CostCount:  len(plan.Costs),
		ClaimCount: len(plan.Claims),
	}

	err = s.uow.WithinScopedTx(ctx, plan.Project.ID, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteWbsNodeRepo(tx)
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, plan.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		if err := txNodes.Create(ctx, plan.Root); err != nil {
			return fmt.Errorf("creating root node: %w", err)
		}
		for _, n := range plan.Nodes {
			if err := txNodes.Create(ctx, n); err != nil {
				return fmt.Errorf("creating node %q: %w", n.Title, err)
			}
		}

		txCosts := repository.NewSQLiteTaskCostRepo(tx)
		for i := range plan.Costs {
			if err := txCosts.Upsert(ctx, plan.Project.ID, &plan.Costs[i]); err != nil {
				return fmt.Errorf("creating task cost: %w", err)
			}
		}
		txEdges := repository.NewSQLiteDependencyRepo(tx)
		for _, e := range plan.Edges {
			if err := txEdges.Create(ctx, e); err != nil {
				return fmt.Errorf("creating dependency: %w", err)
			}
		}
		txClaims := repository.NewSQLiteClaimRepo(tx)
		for _, c := range plan.Claims {
			if err := txClaims.Create(ctx, c); err != nil {
				return fmt.Errorf("creating claim: %w", err)
			}
		}

		res, err := s.opts.rollupEngine(txNodes).RecalcSubtree(ctx, plan.Root.ID)
		if err != nil {
			return fmt.Errorf("rolling up imported plan: %w", err)
		}
		result.RolledUp = len(res.Updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["project_id"] = plan.Project.ID
	fields["nodes"] = result.NodeCount
	return result, nil
}

// formatValidationErrors folds every schema problem into one error that still
// matches domain.ErrValidation.
func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return &importValidationError{msg: msg, errs: errs}
}

type importValidationError struct {
	msg  string
	errs []error
}

func (e *importValidationError) Error() string { return e.msg }

// Unwrap exposes the individual problems plus the validation sentinel.
func (e *importValidationError) Unwrap() []error {
	return append([]error{domain.ErrValidation}, e.errs...)
}

