package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// whole list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id           TEXT PRIMARY KEY,
		short_id     TEXT NOT NULL DEFAULT '',
		name         TEXT NOT NULL,
		root_node_id TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS wbs_nodes (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id     TEXT REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		title         TEXT NOT NULL,
		kind          TEXT NOT NULL
		              CHECK(kind IN ('project','phase','work_package','activity','task')),
		level         INTEGER NOT NULL CHECK(level BETWEEN 1 AND 5),
		order_index   INTEGER NOT NULL DEFAULT 0,
		date_start    TEXT,
		date_finish   TEXT,
		hours_planned REAL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_wbs_nodes_project ON wbs_nodes(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wbs_nodes_parent ON wbs_nodes(parent_id)`,

	`CREATE TABLE IF NOT EXISTS dependency_edges (
		id                TEXT PRIMARY KEY,
		project_id        TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		origin_task_id    TEXT NOT NULL REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		dependent_task_id TEXT NOT NULL REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		relation_kind     TEXT NOT NULL
		                  CHECK(relation_kind IN ('finish_to_start','start_to_start','finish_to_finish','start_to_finish')),
		lag_minutes       INTEGER NOT NULL DEFAULT 0 CHECK(lag_minutes >= 0),
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL,
		CHECK(origin_task_id != dependent_task_id),
		UNIQUE(origin_task_id, dependent_task_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_edges_project ON dependency_edges(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_dependent ON dependency_edges(dependent_task_id)`,

	`CREATE TABLE IF NOT EXISTS task_costs (
		task_id    TEXT PRIMARY KEY REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		start      TEXT NOT NULL,
		finish     TEXT NOT NULL,
		cost       REAL NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_costs_project ON task_costs(project_id)`,

	`CREATE TABLE IF NOT EXISTS progress_claims (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		period_end TEXT NOT NULL,
		amount     REAL NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_claims_project ON progress_claims(project_id, period_end)`,

	// Claims gained a free-text note after the first release.
	`ALTER TABLE progress_claims ADD COLUMN note TEXT NOT NULL DEFAULT ''`,
}
