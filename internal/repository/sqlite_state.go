package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/loadplan/internal/db"
)

// SQLiteStateRepo implements StateRepo on the singleton app_state row.
type SQLiteStateRepo struct {
	db db.DBTX
}

func NewSQLiteStateRepo(conn db.DBTX) *SQLiteStateRepo {
	return &SQLiteStateRepo{db: conn}
}

// ActivePlanID returns the stored pointer, which is empty when no plan has
// been activated.
func (r *SQLiteStateRepo) ActivePlanID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT active_plan_id FROM app_state WHERE id = 'default'`).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("reading active plan: %w", err)
	}
	return id, nil
}

func (r *SQLiteStateRepo) SetActivePlanID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO app_state (id, active_plan_id) VALUES ('default', ?)
		ON CONFLICT(id) DO UPDATE SET active_plan_id = excluded.active_plan_id`, id)
	if err != nil {
		return fmt.Errorf("setting active plan: %w", err)
	}
	return nil
}
