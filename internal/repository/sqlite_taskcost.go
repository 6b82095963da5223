package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planline/internal/db"
	"github.com/alexanderramin/planline/internal/domain"
)

// SQLiteTaskCostRepo implements TaskCostRepo using a SQLite database.
type SQLiteTaskCostRepo struct {
	db db.DBTX
}

func NewSQLiteTaskCostRepo(db db.DBTX) *SQLiteTaskCostRepo {
	return &SQLiteTaskCostRepo{db: db}
}

// Upsert stores the task's cost window, replacing any previous one.
func (r *SQLiteTaskCostRepo) Upsert(ctx context.Context, projectID string, c *domain.TaskCost) error {
	query := `INSERT INTO task_costs (task_id, project_id, start, finish, cost, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			start = excluded.start,
			finish = excluded.finish,
			cost = excluded.cost,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		c.TaskID,
		projectID,
		c.Start.Format(dateLayout),
		c.Finish.Format(dateLayout),
		c.Cost,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting task cost: %w", err)
	}
	return nil
}

func (r *SQLiteTaskCostRepo) Get(ctx context.Context, taskID string) (*domain.TaskCost, error) {
	query := `SELECT task_id, start, finish, cost FROM task_costs WHERE task_id = ?`
	c, err := scanTaskCost(r.db.QueryRowContext(ctx, query, taskID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task cost %s: %w", taskID, ErrNotFound)
	}
	return c, err
}

func (r *SQLiteTaskCostRepo) ListByProject(ctx context.Context, projectID string) ([]domain.TaskCost, error) {
	query := `SELECT task_id, start, finish, cost FROM task_costs WHERE project_id = ? ORDER BY start, task_id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing task costs: %w", err)
	}
	defer rows.Close()

	var costs []domain.TaskCost
	for rows.Next() {
		c, err := scanTaskCost(rows)
		if err != nil {
			return nil, err
		}
		costs = append(costs, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task costs: %w", err)
	}
	return costs, nil
}

func (r *SQLiteTaskCostRepo) Delete(ctx context.Context, taskID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM task_costs WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("deleting task cost: %w", err)
	}
	return nil
}

func scanTaskCost(row rowScanner) (*domain.TaskCost, error) {
	var c domain.TaskCost
	var startStr, finishStr string
	if err := row.Scan(&c.TaskID, &startStr, &finishStr, &c.Cost); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task cost: %w", err)
	}
	start := parseNullableTime(sql.NullString{String: startStr, Valid: true}, dateLayout)
	finish := parseNullableTime(sql.NullString{String: finishStr, Valid: true}, dateLayout)
	if start == nil || finish == nil {
		return nil, fmt.Errorf("task cost %s: malformed window %q..%q", c.TaskID, startStr, finishStr)
	}
	c.Start, c.Finish = *start, *finish
	return &c, nil
}
