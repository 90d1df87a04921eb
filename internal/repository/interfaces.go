package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/loadplan/internal/domain"
)

// PlanRepo stores live plans. Plans are read and written as aggregates:
// members, periods and work logs travel with their plan.
type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	Get(ctx context.Context, id string) (*domain.Plan, error)
	GetByName(ctx context.Context, name string) (*domain.Plan, error)
	List(ctx context.Context) ([]*domain.Plan, error)
	Save(ctx context.Context, p *domain.Plan) error
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// StateRepo holds the store-wide pointer to the active plan.
type StateRepo interface {
	ActivePlanID(ctx context.Context) (string, error)
	SetActivePlanID(ctx context.Context, id string) error
}

// StagedEntry is one pending staging bucket.
type StagedEntry struct {
	Key      domain.StagingKey
	Payload  *domain.StagingPayload
	StagedAt time.Time
}

// StagingRepo is the staging store: one payload per key, where the empty
// plan name is the global bucket. Save overwrites, it never appends.
type StagingRepo interface {
	Save(ctx context.Context, payload *domain.StagingPayload, planName string) error
	Load(ctx context.Context, planName string) (*domain.StagingPayload, error)
	Clear(ctx context.Context, target domain.StagingTarget, planName string) error
	List(ctx context.Context) ([]StagedEntry, error)
}
