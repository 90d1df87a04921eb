package service

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/export"
	"github.com/alexanderramin/loadplan/internal/importer"
)

type exportService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewExportService(uow db.UnitOfWork, observers ...UseCaseObserver) ExportService {
	return &exportService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// plan loads the named plan, or the active one when name is empty.
func (s *exportService) plan(ctx context.Context, name string) (*domain.Plan, error) {
	var p *domain.Plan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		p, err = reposFor(tx).resolvePlan(ctx, name, false)
		return err
	})
	return p, err
}

func (s *exportService) PeriodsCSV(ctx context.Context, planName string) (string, error) {
	p, err := s.plan(ctx, planName)
	if err != nil {
		return "", err
	}
	return importer.GeneratePeriodCSV(p.Periods)
}

func (s *exportService) WorkloadSummaryCSV(ctx context.Context, planName string) (string, error) {
	p, err := s.plan(ctx, planName)
	if err != nil {
		return "", err
	}
	return export.GenerateWorkloadSummaryCSV(p)
}

func (s *exportService) LeavesSummaryCSV(ctx context.Context, planName string) (string, error) {
	p, err := s.plan(ctx, planName)
	if err != nil {
		return "", err
	}
	return export.GenerateLeavesSummaryCSV(p)
}

func (s *exportService) Workbook(ctx context.Context, planName string, w io.Writer) (err error) {
	fields := map[string]any{"plan": planName}
	done := observe(ctx, s.observer, "export-workbook", fields)
	defer func() { done(err) }()

	p, err := s.plan(ctx, planName)
	if err != nil {
		return err
	}
	fields["plan"] = p.Name
	return export.WriteWorkbook(w, p)
}

// Dump reads the whole store as a portable document.
func (s *exportService) Dump(ctx context.Context) (*domain.Document, error) {
	doc := &domain.Document{Plans: []domain.Plan{}}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		plans, err := r.plans.List(ctx)
		if err != nil {
			return fmt.Errorf("listing plans: %w", err)
		}
		for _, p := range plans {
			doc.Plans = append(doc.Plans, *p)
		}
		if doc.ActivePlanID, err = r.state.ActivePlanID(ctx); err != nil {
			return fmt.Errorf("reading active plan: %w", err)
		}

		entries, err := r.staging.List(ctx)
		if err != nil {
			return fmt.Errorf("listing staging: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}
		doc.Staging = &domain.StagingDocument{}
		for _, e := range entries {
			if e.Key.IsGlobal() {
				doc.Staging.Global = e.Payload
				continue
			}
			if doc.Staging.ByPlan == nil {
				doc.Staging.ByPlan = make(map[string]*domain.StagingPayload)
			}
			doc.Staging.ByPlan[e.Key.PlanName] = e.Payload
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Load replaces the store contents with doc. Every plan is validated
// before anything is written; an active id that names no plan falls back
// to the first plan.
func (s *exportService) Load(ctx context.Context, doc *domain.Document) (err error) {
	fields := map[string]any{"plans": len(doc.Plans)}
	done := observe(ctx, s.observer, "load-document", fields)
	defer func() { done(err) }()

	for _, p := range doc.Plans {
		if err := domain.ValidatePlan(p); err != nil {
			return fmt.Errorf("validating plan '%s': %w", p.Name, err)
		}
	}

	active := doc.ActivePlanID
	if !slices.ContainsFunc(doc.Plans, func(p domain.Plan) bool { return p.ID == active }) {
		active = ""
		if len(doc.Plans) > 0 {
			active = doc.Plans[0].ID
		}
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		if err := r.plans.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clearing plans: %w", err)
		}
		if err := r.staging.Clear(ctx, domain.TargetAll, ""); err != nil {
			return fmt.Errorf("clearing staging: %w", err)
		}

		for i := range doc.Plans {
			p := doc.Plans[i].Clone()
			if err := r.plans.Create(ctx, &p); err != nil {
				return fmt.Errorf("creating plan '%s': %w", p.Name, err)
			}
		}
		if err := r.state.SetActivePlanID(ctx, active); err != nil {
			return fmt.Errorf("activating plan: %w", err)
		}

		if doc.Staging == nil {
			return nil
		}
		if !doc.Staging.Global.IsEmpty() {
			if err := r.staging.Save(ctx, doc.Staging.Global, ""); err != nil {
				return err
			}
		}
		for name, payload := range doc.Staging.ByPlan {
			if name == "" || payload.IsEmpty() {
				continue
			}
			if err := r.staging.Save(ctx, payload, name); err != nil {
				return err
			}
		}
		return nil
	})
}
