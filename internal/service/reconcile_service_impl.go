package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/reconcile"
)

type reconcileService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewReconcileService(uow db.UnitOfWork, observers ...UseCaseObserver) ReconcileService {
	return &reconcileService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Preview reports what Apply would do without touching plans or staging.
// A plan that Apply would create is previewed as an empty one.
func (s *reconcileService) Preview(ctx context.Context, planName string) (*ApplyResult, error) {
	var res *ApplyResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		staged, err := r.staging.Load(ctx, planName)
		if err != nil {
			return err
		}
		live, err := r.resolvePlan(ctx, planName, false)
		if err != nil {
			if !isMissingPlan(err) {
				return err
			}
			live = domain.NewPlan(domain.NameOr(planName, domain.DefaultPlanName))
		}
		res = &ApplyResult{Plan: live, Report: reconcile.Preview(*live, staged)}
		return nil
	})
	return res, err
}

// Apply merges the bucket into its live plan, validates and saves the
// result, and clears the bucket, all in one transaction. An empty bucket
// is a no-op.
func (s *reconcileService) Apply(ctx context.Context, planName string) (res *ApplyResult, err error) {
	fields := map[string]any{"bucket": domain.StagingKey{PlanName: planName}.String()}
	done := observe(ctx, s.observer, "apply-staging", fields)
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		staged, err := r.staging.Load(ctx, planName)
		if err != nil {
			return err
		}
		if staged.IsEmpty() {
			res = &ApplyResult{}
			return nil
		}

		live, err := r.resolvePlan(ctx, planName, true)
		if err != nil {
			return err
		}
		merged, report := reconcile.Merge(*live, staged)
		if err := savePlan(ctx, r.plans, &merged); err != nil {
			return err
		}

		target := domain.TargetGlobal
		if planName != "" {
			target = domain.TargetPlan
		}
		if err := r.staging.Clear(ctx, target, planName); err != nil {
			return fmt.Errorf("clearing applied bucket: %w", err)
		}

		fields["plan"] = merged.Name
		fields["members_added"] = report.MembersAdded
		fields["periods_added"] = report.PeriodsAdded
		fields["work_logs_added"] = report.WorkLogsAdded
		fields["work_logs_replaced"] = report.WorkLogsReplaced
		res = &ApplyResult{Plan: &merged, Report: report, Applied: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
