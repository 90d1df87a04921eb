package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_AddsPositionColumns simulates a store created
// before plan children carried an explicit position. Existing rows must
// survive and pick up the column default.
func TestMigrate_UpgradePath_AddsPositionColumns(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	legacy := []string{
		`CREATE TABLE plans (
			id                       TEXT PRIMARY KEY,
			name                     TEXT NOT NULL UNIQUE,
			default_daily_hours      REAL NOT NULL DEFAULT 7.5,
			consider_public_holidays INTEGER NOT NULL DEFAULT 1,
			company_holidays         TEXT NOT NULL DEFAULT '[]',
			created_at               TEXT NOT NULL,
			updated_at               TEXT NOT NULL
		)`,
		`CREATE TABLE members (
			plan_id       TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
			id            TEXT NOT NULL,
			name          TEXT NOT NULL,
			buffer        REAL NOT NULL DEFAULT 5,
			project_ratio REAL NOT NULL DEFAULT 50,
			feature_ratio REAL NOT NULL DEFAULT 50,
			PRIMARY KEY (plan_id, id),
			UNIQUE (plan_id, name)
		)`,
		`CREATE TABLE periods (
			plan_id      TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
			id           TEXT NOT NULL,
			name         TEXT NOT NULL,
			start_date   TEXT NOT NULL DEFAULT '',
			end_date     TEXT NOT NULL DEFAULT '',
			working_days INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (plan_id, id),
			UNIQUE (plan_id, name)
		)`,
		`CREATE TABLE work_logs (
			plan_id   TEXT NOT NULL,
			id        TEXT NOT NULL,
			member_id TEXT NOT NULL,
			period_id TEXT NOT NULL,
			type      TEXT NOT NULL,
			task_name TEXT NOT NULL DEFAULT '',
			hours     REAL NOT NULL,
			PRIMARY KEY (plan_id, id),
			FOREIGN KEY (plan_id, member_id) REFERENCES members(plan_id, id) ON DELETE CASCADE,
			FOREIGN KEY (plan_id, period_id) REFERENCES periods(plan_id, id) ON DELETE CASCADE
		)`,
		`INSERT INTO plans (id, name, created_at, updated_at) VALUES ('p1', 'Legacy', '2024-04-01T00:00:00Z', '2024-04-01T00:00:00Z')`,
		`INSERT INTO members (plan_id, id, name) VALUES ('p1', 'm1', 'Alice')`,
		`INSERT INTO periods (plan_id, id, name, start_date, end_date, working_days) VALUES ('p1', 'x1', 'April', '2024-04-01', '2024-04-30', 21)`,
		`INSERT INTO work_logs (plan_id, id, member_id, period_id, type, task_name, hours) VALUES ('p1', 'w1', 'm1', 'x1', 'project', 'Alpha - Design', 12)`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var hours float64
	var position int
	require.NoError(t, db.QueryRow(`SELECT hours, position FROM work_logs WHERE id = 'w1'`).Scan(&hours, &position))
	assert.Equal(t, 12.0, hours)
	assert.Zero(t, position)

	var memberPos, periodPos int
	require.NoError(t, db.QueryRow(`SELECT position FROM members WHERE id = 'm1'`).Scan(&memberPos))
	require.NoError(t, db.QueryRow(`SELECT position FROM periods WHERE id = 'x1'`).Scan(&periodPos))
	assert.Zero(t, memberPos)
	assert.Zero(t, periodPos)

	var active string
	require.NoError(t, db.QueryRow(`SELECT active_plan_id FROM app_state WHERE id = 'default'`).Scan(&active))
	assert.Equal(t, "p1", active, "legacy stores get their first plan activated")

	require.NoError(t, Migrate(db), "re-running over an upgraded store is a no-op")
}
