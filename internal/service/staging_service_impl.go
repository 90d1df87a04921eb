package service

import (
	"context"

	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/repository"
)

type stagingService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewStagingService(uow db.UnitOfWork, observers ...UseCaseObserver) StagingService {
	return &stagingService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *stagingService) Pending(ctx context.Context) ([]repository.StagedEntry, error) {
	var entries []repository.StagedEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		entries, err = reposFor(tx).staging.List(ctx)
		return err
	})
	return entries, err
}

// Load returns the payload of one bucket, nil when nothing is staged.
func (s *stagingService) Load(ctx context.Context, planName string) (*domain.StagingPayload, error) {
	var payload *domain.StagingPayload
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		payload, err = reposFor(tx).staging.Load(ctx, planName)
		return err
	})
	return payload, err
}

func (s *stagingService) Clear(ctx context.Context, target domain.StagingTarget, planName string) (err error) {
	done := observe(ctx, s.observer, "clear-staging", map[string]any{"target": string(target), "plan": planName})
	defer func() { done(err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return reposFor(tx).staging.Clear(ctx, target, planName)
	})
}
