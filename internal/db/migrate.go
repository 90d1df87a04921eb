package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
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
	if err := migrateRepairActivePlan(db); err != nil {
		return fmt.Errorf("repairing active plan pointer: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id                       TEXT PRIMARY KEY,
		name                     TEXT NOT NULL UNIQUE,
		default_daily_hours      REAL NOT NULL DEFAULT 7.5
		                         CHECK(default_daily_hours >= 0 AND default_daily_hours <= 24),
		consider_public_holidays INTEGER NOT NULL DEFAULT 1,
		company_holidays         TEXT NOT NULL DEFAULT '[]',
		created_at               TEXT NOT NULL,
		updated_at               TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS members (
		plan_id       TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		id            TEXT NOT NULL,
		name          TEXT NOT NULL,
		buffer        REAL NOT NULL DEFAULT 5 CHECK(buffer >= 0 AND buffer <= 100),
		project_ratio REAL NOT NULL DEFAULT 50,
		feature_ratio REAL NOT NULL DEFAULT 50,
		PRIMARY KEY (plan_id, id),
		UNIQUE (plan_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS periods (
		plan_id      TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		id           TEXT NOT NULL,
		name         TEXT NOT NULL,
		start_date   TEXT NOT NULL DEFAULT '',
		end_date     TEXT NOT NULL DEFAULT '',
		working_days INTEGER NOT NULL DEFAULT 0 CHECK(working_days >= 0),
		PRIMARY KEY (plan_id, id),
		UNIQUE (plan_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS work_logs (
		plan_id   TEXT NOT NULL,
		id        TEXT NOT NULL,
		member_id TEXT NOT NULL,
		period_id TEXT NOT NULL,
		type      TEXT NOT NULL CHECK(type IN ('project','feature','leave')),
		task_name TEXT NOT NULL DEFAULT '',
		hours     REAL NOT NULL CHECK(hours >= 0),
		PRIMARY KEY (plan_id, id),
		FOREIGN KEY (plan_id, member_id) REFERENCES members(plan_id, id) ON DELETE CASCADE,
		FOREIGN KEY (plan_id, period_id) REFERENCES periods(plan_id, id) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_logs_member ON work_logs(plan_id, member_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_logs_period ON work_logs(plan_id, period_id)`,

	`CREATE TABLE IF NOT EXISTS app_state (
		id             TEXT PRIMARY KEY DEFAULT 'default',
		active_plan_id TEXT NOT NULL DEFAULT ''
	)`,

	// Seed the singleton state row
	`INSERT OR IGNORE INTO app_state (id) VALUES ('default')`,

	`CREATE TABLE IF NOT EXISTS staging_payloads (
		scope     TEXT NOT NULL CHECK(scope IN ('global','plan')),
		plan_name TEXT NOT NULL DEFAULT '',
		payload   TEXT NOT NULL,
		staged_at TEXT NOT NULL,
		PRIMARY KEY (scope, plan_name)
	)`,

	// Preserve spreadsheet order of plan children
	`ALTER TABLE members ADD COLUMN position INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE periods ADD COLUMN position INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE work_logs ADD COLUMN position INTEGER NOT NULL DEFAULT 0`,
}

// migrateRepairActivePlan points app_state at the oldest plan when the
// stored active plan no longer exists. Idempotent.
func migrateRepairActivePlan(db *sql.DB) error {
	_, err := db.Exec(`UPDATE app_state
		SET active_plan_id = COALESCE((SELECT id FROM plans ORDER BY created_at, rowid LIMIT 1), '')
		WHERE id = 'default'
		  AND active_plan_id NOT IN (SELECT id FROM plans)`)
	if err != nil {
		return fmt.Errorf("updating app_state: %w", err)
	}
	return nil
}
