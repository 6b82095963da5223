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

// wbsNodeColumns is the canonical SELECT column list for wbs_nodes.
const wbsNodeColumns = `id, project_id, parent_id, title, kind, order_index,
		date_start, date_finish, hours_planned, created_at, updated_at`

// SQLiteWbsNodeRepo implements WbsNodeRepo using a SQLite database.
type SQLiteWbsNodeRepo struct {
	db db.DBTX
}

// NewSQLiteWbsNodeRepo creates a new SQLiteWbsNodeRepo.
func NewSQLiteWbsNodeRepo(db db.DBTX) *SQLiteWbsNodeRepo {
	return &SQLiteWbsNodeRepo{db: db}
}

func (r *SQLiteWbsNodeRepo) Create(ctx context.Context, n *domain.WbsNode) error {
	query := `INSERT INTO wbs_nodes (id, project_id, parent_id, title, kind, level, order_index,
		date_start, date_finish, hours_planned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.ProjectID,
		n.ParentID, // *string: nil becomes SQL NULL
		n.Title,
		string(n.Kind),
		n.Kind.Level(),
		n.OrderIndex,
		nullableTimeToString(n.DateStart, dateLayout),
		nullableTimeToString(n.DateFinish, dateLayout),
		nullableFloatToValue(n.HoursPlanned),
		n.CreatedAt.Format(time.RFC3339),
		n.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting wbs node: %w", err)
	}
	return nil
}

func (r *SQLiteWbsNodeRepo) GetByID(ctx context.Context, id string) (*domain.WbsNode, error) {
	query := `SELECT ` + wbsNodeColumns + ` FROM wbs_nodes WHERE id = ?`
	n, err := r.scanNode(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wbs node %s: %w", id, ErrNotFound)
	}
	return n, err
}

func (r *SQLiteWbsNodeRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.WbsNode, error) {
	query := `SELECT ` + wbsNodeColumns + ` FROM wbs_nodes WHERE project_id = ? ORDER BY level, order_index, created_at`
	return r.list(ctx, "listing wbs nodes by project", query, projectID)
}

func (r *SQLiteWbsNodeRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.WbsNode, error) {
	query := `SELECT ` + wbsNodeColumns + ` FROM wbs_nodes WHERE parent_id = ? ORDER BY order_index, created_at`
	return r.list(ctx, "listing child wbs nodes", query, parentID)
}

func (r *SQLiteWbsNodeRepo) ListTasks(ctx context.Context, projectID string) ([]*domain.WbsNode, error) {
	query := `SELECT ` + wbsNodeColumns + ` FROM wbs_nodes WHERE project_id = ? AND kind = 'task' ORDER BY order_index, created_at`
	return r.list(ctx, "listing tasks", query, projectID)
}

// Update writes every editable column of a node.
func (r *SQLiteWbsNodeRepo) Update(ctx context.Context, n *domain.WbsNode) error {
	query := `UPDATE wbs_nodes SET title = ?, order_index = ?,
		date_start = ?, date_finish = ?, hours_planned = ?, updated_at = ?
		WHERE id = ?`
	return r.exec(ctx, "updating wbs node", n.ID, query,
		n.Title,
		n.OrderIndex,
		nullableTimeToString(n.DateStart, dateLayout),
		nullableTimeToString(n.DateFinish, dateLayout),
		nullableFloatToValue(n.HoursPlanned),
		n.UpdatedAt.Format(time.RFC3339),
		n.ID,
	)
}

// UpdateRollup writes only the aggregated columns of a non-leaf node.
func (r *SQLiteWbsNodeRepo) UpdateRollup(ctx context.Context, n *domain.WbsNode) error {
	query := `UPDATE wbs_nodes SET date_start = ?, date_finish = ?, hours_planned = ?, updated_at = ?
		WHERE id = ?`
	return r.exec(ctx, "updating wbs rollup", n.ID, query,
		nullableTimeToString(n.DateStart, dateLayout),
		nullableTimeToString(n.DateFinish, dateLayout),
		nullableFloatToValue(n.HoursPlanned),
		n.UpdatedAt.Format(time.RFC3339),
		n.ID,
	)
}

func (r *SQLiteWbsNodeRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "deleting wbs node", id, `DELETE FROM wbs_nodes WHERE id = ?`, id)
}

// exec runs a single-row write and reports ErrNotFound when nothing matched.
func (r *SQLiteWbsNodeRepo) exec(ctx context.Context, op, id, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("wbs node %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteWbsNodeRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.WbsNode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var nodes []*domain.WbsNode
	for rows.Next() {
		n, err := r.scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning wbs node row: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wbs nodes: %w", err)
	}
	return nodes, nil
}

// scanNode scans one wbs node. Hours are read as text so a malformed stored
// value degrades to "absent" instead of failing the whole read.
func (r *SQLiteWbsNodeRepo) scanNode(row rowScanner) (*domain.WbsNode, error) {
	var n domain.WbsNode
	var kindStr, createdAtStr, updatedAtStr string
	var parentID, dateStart, dateFinish, hours sql.NullString

	err := row.Scan(
		&n.ID, &n.ProjectID, &parentID, &n.Title, &kindStr, &n.OrderIndex,
		&dateStart, &dateFinish, &hours, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	n.Kind = domain.NodeKind(kindStr)
	if parentID.Valid {
		n.ParentID = &parentID.String
	}
	n.DateStart = parseNullableTime(dateStart, dateLayout)
	n.DateFinish = parseNullableTime(dateFinish, dateLayout)
	n.HoursPlanned = parseNullableFloat(hours)

	if n.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = parseTimestamp("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &n, nil
}
