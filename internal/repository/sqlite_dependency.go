package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/planline/internal/db"
	"github.com/alexanderramin/planline/internal/domain"
)

const edgeColumns = `id, project_id, origin_task_id, dependent_task_id, relation_kind, lag_minutes, created_at, updated_at`

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(db db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: db}
}

func (r *SQLiteDependencyRepo) Create(ctx context.Context, e *domain.DependencyEdge) error {
	query := `INSERT INTO dependency_edges (` + edgeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ProjectID,
		e.OriginTaskID,
		e.DependentTaskID,
		string(e.Kind),
		e.LagMinutes,
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting dependency edge: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) GetByID(ctx context.Context, id string) (*domain.DependencyEdge, error) {
	query := `SELECT ` + edgeColumns + ` FROM dependency_edges WHERE id = ?`
	e, err := r.scanEdge(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dependency edge %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning dependency edge: %w", err)
	}
	return e, nil
}

func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]domain.DependencyEdge, error) {
	query := `SELECT ` + edgeColumns + ` FROM dependency_edges WHERE project_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing dependency edges: %w", err)
	}
	defer rows.Close()
	return r.scanEdges(rows)
}

// UpdateKind changes an edge's relation kind and lag. Endpoints are immutable,
// so this never needs a cycle check.
func (r *SQLiteDependencyRepo) UpdateKind(ctx context.Context, id string, kind domain.RelationKind, lagMinutes int) error {
	query := `UPDATE dependency_edges SET relation_kind = ?, lag_minutes = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, string(kind), lagMinutes, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating dependency edge: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("dependency edge %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dependency_edges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting dependency edge: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("dependency edge %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteDependencyRepo) scanEdge(row rowScanner) (*domain.DependencyEdge, error) {
	var e domain.DependencyEdge
	var kindStr, createdAtStr, updatedAtStr string
	if err := row.Scan(&e.ID, &e.ProjectID, &e.OriginTaskID, &e.DependentTaskID,
		&kindStr, &e.LagMinutes, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}
	e.Kind = domain.RelationKind(kindStr)
	var err error
	if e.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTimestamp("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &e, nil
}

// scanEdges scans multiple edge rows from *sql.Rows.
func (r *SQLiteDependencyRepo) scanEdges(rows *sql.Rows) ([]domain.DependencyEdge, error) {
	var edges []domain.DependencyEdge
	for rows.Next() {
		e, err := r.scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning dependency edge: %w", err)
		}
		edges = append(edges, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependency edges: %w", err)
	}
	return edges, nil
}
