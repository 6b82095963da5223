package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/planline/internal/db"
	"github.com/alexanderramin/planline/internal/domain"
)

// SQLiteClaimRepo implements ClaimRepo using a SQLite database.
type SQLiteClaimRepo struct {
	db db.DBTX
}

func NewSQLiteClaimRepo(db db.DBTX) *SQLiteClaimRepo {
	return &SQLiteClaimRepo{db: db}
}

func (r *SQLiteClaimRepo) Create(ctx context.Context, c *domain.ProgressClaim) error {
	query := `INSERT INTO progress_claims (id, project_id, period_end, amount, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.ProjectID,
		c.PeriodEnd.Format(dateLayout),
		c.Amount,
		c.Note,
		c.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting progress claim: %w", err)
	}
	return nil
}

func (r *SQLiteClaimRepo) ListByProject(ctx context.Context, projectID string) ([]domain.ProgressClaim, error) {
	query := `SELECT id, project_id, period_end, amount, note, created_at
		FROM progress_claims WHERE project_id = ? ORDER BY period_end, created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing progress claims: %w", err)
	}
	defer rows.Close()

	var claims []domain.ProgressClaim
	for rows.Next() {
		var c domain.ProgressClaim
		var periodEnd, createdAt string
		var note sql.NullString
		if err := rows.Scan(&c.ID, &c.ProjectID, &periodEnd, &c.Amount, &note, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning progress claim: %w", err)
		}
		pe := parseNullableTime(sql.NullString{String: periodEnd, Valid: true}, dateLayout)
		if pe == nil {
			return nil, fmt.Errorf("progress claim %s: malformed period end %q", c.ID, periodEnd)
		}
		c.PeriodEnd = *pe
		c.Note = note.String
		created, err := parseTimestamp("created_at", createdAt)
		if err != nil {
			return nil, err
		}
		c.CreatedAt = created
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress claims: %w", err)
	}
	return claims, nil
}

func (r *SQLiteClaimRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM progress_claims WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting progress claim: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("progress claim %s: %w", id, ErrNotFound)
	}
	return nil
}
