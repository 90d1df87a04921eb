package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/domain"
)

const (
	scopeGlobal = "global"
	scopePlan   = "plan"
)

// SQLiteStagingRepo implements StagingRepo. Each bucket is one row holding
// the payload as JSON.
type SQLiteStagingRepo struct {
	db db.DBTX
}

func NewSQLiteStagingRepo(conn db.DBTX) *SQLiteStagingRepo {
	return &SQLiteStagingRepo{db: conn}
}

func scopeFor(planName string) string {
	if planName == "" {
		return scopeGlobal
	}
	return scopePlan
}

// Save replaces whatever is staged under planName ("" for global).
func (r *SQLiteStagingRepo) Save(ctx context.Context, payload *domain.StagingPayload, planName string) error {
	if payload == nil {
		payload = &domain.StagingPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding staging payload: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO staging_payloads (scope, plan_name, payload, staged_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(scope, plan_name) DO UPDATE SET payload = excluded.payload, staged_at = excluded.staged_at`,
		scopeFor(planName), planName, string(data), nowUTC())
	if err != nil {
		return fmt.Errorf("saving staging payload: %w", err)
	}
	return nil
}

// Load returns the payload staged under planName, or nil when nothing is
// staged there.
func (r *SQLiteStagingRepo) Load(ctx context.Context, planName string) (*domain.StagingPayload, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM staging_payloads WHERE scope = ? AND plan_name = ?`,
		scopeFor(planName), planName).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading staging payload: %w", err)
	}
	return decodePayload(data)
}

// Clear removes staged data. TargetPlan needs planName; clearing a bucket
// that does not exist is not an error.
func (r *SQLiteStagingRepo) Clear(ctx context.Context, target domain.StagingTarget, planName string) error {
	var (
		query string
		args  []any
	)
	switch target {
	case domain.TargetGlobal:
		query, args = `DELETE FROM staging_payloads WHERE scope = ?`, []any{scopeGlobal}
	case domain.TargetPlan:
		if planName == "" {
			return fmt.Errorf("%w: plan target needs a plan name", ErrInvalidClearTarget)
		}
		query, args = `DELETE FROM staging_payloads WHERE scope = ? AND plan_name = ?`, []any{scopePlan, planName}
	case domain.TargetAll:
		query = `DELETE FROM staging_payloads`
	default:
		return fmt.Errorf("%w: %q", ErrInvalidClearTarget, target)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clearing staging (%s): %w", target, err)
	}
	return nil
}

// List returns every staged bucket, global first, then plans by name.
func (r *SQLiteStagingRepo) List(ctx context.Context) ([]StagedEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT plan_name, payload, staged_at FROM staging_payloads ORDER BY scope = 'plan', plan_name`)
	if err != nil {
		return nil, fmt.Errorf("listing staging payloads: %w", err)
	}
	defer rows.Close()

	var entries []StagedEntry
	for rows.Next() {
		var planName, data, stagedAt string
		if err := rows.Scan(&planName, &data, &stagedAt); err != nil {
			return nil, fmt.Errorf("scanning staging row: %w", err)
		}
		payload, err := decodePayload(data)
		if err != nil {
			return nil, err
		}
		entries = append(entries, StagedEntry{
			Key:      domain.StagingKey{PlanName: planName},
			Payload:  payload,
			StagedAt: parseTimestamp(stagedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating staging payloads: %w", err)
	}
	return entries, nil
}

func decodePayload(data string) (*domain.StagingPayload, error) {
	var p domain.StagingPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decoding staging payload: %w", err)
	}
	return &p, nil
}
