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

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	opts     options
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, opts ...Option) ProjectService {
	return &projectService{projects: projects, uow: uow, opts: newOptions(opts)}
}

// Create inserts the project and its level-1 root node together.
func (s *projectService) Create(ctx context.Context, name, shortID string) (project *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"short_id": shortID}
	defer s.opts.observe(ctx, "create-project", startedAt, fields, &err)

	p, root, err := domain.NewProject(uuid.New().String(), uuid.New().String(), name, shortID, s.opts.now())
	if err != nil {
		return nil, err
	}
	if _, lookupErr := s.projects.GetByShortID(ctx, p.ShortID); lookupErr == nil {
		err = &domain.ValidationError{Field: "short_id", Message: fmt.Sprintf("%s is already in use", p.ShortID)}
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, p); err != nil {
			return err
		}
		return repository.NewSQLiteWbsNodeRepo(tx).Create(ctx, root)
	})
	if err != nil {
		return nil, err
	}
	fields["project_id"] = p.ID
	return p, nil
}

func (s *projectService) Get(ctx context.Context, idOrShortID string) (*domain.Project, error) {
	p, err := s.projects.GetByShortID(ctx, idOrShortID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	p, err = s.projects.GetByID(ctx, idOrShortID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.NotFoundError{Entity: "project", ID: idOrShortID}
	}
	return p, err
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

// Delete removes the project; its tree, edges, costs and claims cascade.
func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer s.opts.observe(ctx, "delete-project", startedAt, map[string]any{"project_id": id}, &err)

	if _, err = s.projects.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = &domain.NotFoundError{Entity: "project", ID: id}
		}
		return err
	}
	return s.uow.WithinScopedTx(ctx, id, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Delete(ctx, id)
	})
}
