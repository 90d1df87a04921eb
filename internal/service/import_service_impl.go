package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/loadplan/internal/calendar"
	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/importer"
	"github.com/alexanderramin/loadplan/internal/reconcile"
	"github.com/alexanderramin/loadplan/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	holidays calendar.HolidayFetcher
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewImportService(
	uow db.UnitOfWork,
	holidays calendar.HolidayFetcher,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &importService{
		uow:      uow,
		holidays: holidays,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

// StagePeriods parses a period CSV, computes working days and upserts the
// periods by name into the staging bucket. Staged members and work logs
// are left as they were.
func (s *importService) StagePeriods(ctx context.Context, csvText, planName string) (res *StageResult, err error) {
	fields := map[string]any{"bucket": domain.StagingKey{PlanName: planName}.String()}
	done := observe(ctx, s.observer, "stage-periods", fields)
	defer func() { done(err) }()

	rows, err := importer.ParsePeriods(csvText)
	if err != nil {
		return nil, fmt.Errorf("parsing periods: %w", err)
	}
	fields["rows"] = len(rows)
	holidays := calendar.FetchOrEmpty(ctx, s.holidays, s.logger)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		settings, err := s.settingsFor(ctx, r, planName)
		if err != nil {
			return err
		}
		staged, err := loadOrEmpty(ctx, r.staging, planName)
		if err != nil {
			return err
		}

		for _, row := range rows {
			row.WorkingDays = calendar.WorkingDays(row.StartDate, row.EndDate, holidays, settings)
			upsertPeriod(staged, row)
		}

		if err := r.staging.Save(ctx, staged, planName); err != nil {
			return err
		}
		res = &StageResult{Key: domain.StagingKey{PlanName: planName}, Payload: staged, Added: len(rows)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// StageWorkload converts a workload CSV against the periods known to the
// bucket: the live plan's periods followed by staged ones not live yet.
// Staged work logs are replaced; staged periods and members are kept and
// newly seen members are added.
func (s *importService) StageWorkload(ctx context.Context, csvText, planName string) (res *StageResult, err error) {
	fields := map[string]any{"bucket": domain.StagingKey{PlanName: planName}.String()}
	done := observe(ctx, s.observer, "stage-workload", fields)
	defer func() { done(err) }()

	rows, err := importer.ParseWorkload(csvText)
	if err != nil {
		return nil, fmt.Errorf("parsing workload: %w", err)
	}
	fields["rows"] = len(rows)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		live, err := s.existingPlan(ctx, r, planName)
		if err != nil {
			return err
		}
		staged, err := loadOrEmpty(ctx, r.staging, planName)
		if err != nil {
			return err
		}

		periods := knownPeriods(live, staged)
		if len(periods) == 0 {
			return ErrMissingPrerequisite
		}

		var liveMembers []domain.Member
		if live != nil {
			liveMembers = live.Members
		}
		registry := importer.NewMemberRegistry(liveMembers, staged.Members)
		converted, err := importer.Convert(rows, periods, nil, registry)
		if err != nil {
			return fmt.Errorf("converting workload: %w", err)
		}
		s.logWarnings(ctx, converted.Warnings)

		staged.Members = append(staged.Members, registry.Created()...)
		staged.WorkLogs = converted.WorkLogs
		if err := r.staging.Save(ctx, staged, planName); err != nil {
			return err
		}

		fields["work_logs"] = len(converted.WorkLogs)
		fields["members_created"] = len(registry.Created())
		fields["warnings"] = len(converted.Warnings)
		res = &StageResult{
			Key:      domain.StagingKey{PlanName: planName},
			Payload:  staged,
			Added:    len(converted.WorkLogs),
			Warnings: converted.Warnings,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ImportPeriods merges a period CSV straight into the active plan, creating
// the default plan when there is none.
func (s *importService) ImportPeriods(ctx context.Context, csvText string) (res *ImportResult, err error) {
	fields := map[string]any{}
	done := observe(ctx, s.observer, "import-periods", fields)
	defer func() { done(err) }()

	rows, err := importer.ParsePeriods(csvText)
	if err != nil {
		return nil, fmt.Errorf("parsing periods: %w", err)
	}
	fields["rows"] = len(rows)
	holidays := calendar.FetchOrEmpty(ctx, s.holidays, s.logger)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		plan, err := r.activePlan(ctx, true)
		if err != nil {
			return err
		}

		payload := &domain.StagingPayload{}
		for _, row := range rows {
			row.WorkingDays = calendar.WorkingDays(row.StartDate, row.EndDate, holidays, plan.Settings)
			payload.Periods = append(payload.Periods, row.ToPeriod())
		}

		report := reconcile.MergeInto(plan, payload)
		if err := savePlan(ctx, r.plans, plan); err != nil {
			return err
		}
		fields["plan"] = plan.Name
		fields["periods_added"] = report.PeriodsAdded
		res = &ImportResult{Plan: plan, Report: report}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ImportWorkload merges a workload CSV straight into the active plan. The
// plan must already have periods.
func (s *importService) ImportWorkload(ctx context.Context, csvText string) (res *ImportResult, err error) {
	fields := map[string]any{}
	done := observe(ctx, s.observer, "import-workload", fields)
	defer func() { done(err) }()

	rows, err := importer.ParseWorkload(csvText)
	if err != nil {
		return nil, fmt.Errorf("parsing workload: %w", err)
	}
	fields["rows"] = len(rows)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		plan, err := r.activePlan(ctx, false)
		if errors.Is(err, ErrNoPlan) {
			return ErrMissingPrerequisite
		}
		if err != nil {
			return err
		}
		if len(plan.Periods) == 0 {
			return ErrMissingPrerequisite
		}

		registry := importer.NewMemberRegistry(plan.Members)
		converted, err := importer.Convert(rows, plan.Periods, plan.Members, registry)
		if err != nil {
			return fmt.Errorf("converting workload: %w", err)
		}
		s.logWarnings(ctx, converted.Warnings)

		report := reconcile.MergeInto(plan, &domain.StagingPayload{
			Members:  registry.Created(),
			WorkLogs: converted.WorkLogs,
		})
		if err := savePlan(ctx, r.plans, plan); err != nil {
			return err
		}
		fields["plan"] = plan.Name
		fields["work_logs"] = len(converted.WorkLogs)
		fields["warnings"] = len(converted.Warnings)
		res = &ImportResult{Plan: plan, Report: report, Warnings: converted.Warnings}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// existingPlan is the live plan a bucket will be applied to, or nil when
// it does not exist yet.
func (s *importService) existingPlan(ctx context.Context, r txRepos, planName string) (*domain.Plan, error) {
	p, err := r.resolvePlan(ctx, planName, false)
	if isMissingPlan(err) {
		return nil, nil
	}
	return p, err
}

func (s *importService) settingsFor(ctx context.Context, r txRepos, planName string) (domain.Settings, error) {
	p, err := s.existingPlan(ctx, r, planName)
	if err != nil {
		return domain.Settings{}, err
	}
	if p == nil {
		return domain.DefaultSettings(), nil
	}
	return p.Settings, nil
}

func (s *importService) logWarnings(ctx context.Context, warnings []importer.Warning) {
	for _, w := range warnings {
		s.logger.WarnContext(ctx, "import warning",
			"code", string(w.Code), "row", w.Row, "column", w.Column, "message", w.Message)
	}
}

func loadOrEmpty(ctx context.Context, staging repository.StagingRepo, planName string) (*domain.StagingPayload, error) {
	p, err := staging.Load(ctx, planName)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &domain.StagingPayload{}
	}
	return p, nil
}

// upsertPeriod replaces the dates of a staged period with the same name,
// keeping its ID so staged work logs stay valid, or appends a new one.
func upsertPeriod(staged *domain.StagingPayload, row importer.PeriodRow) {
	for i := range staged.Periods {
		if staged.Periods[i].Name == row.Name {
			staged.Periods[i].StartDate = row.StartDate
			staged.Periods[i].EndDate = row.EndDate
			staged.Periods[i].WorkingDays = row.WorkingDays
			return
		}
	}
	staged.Periods = append(staged.Periods, row.ToPeriod())
}

// knownPeriods lists live periods first, then staged periods whose names
// are not live.
func knownPeriods(live *domain.Plan, staged *domain.StagingPayload) []domain.Period {
	var out []domain.Period
	seen := make(map[string]bool)
	if live != nil {
		for _, p := range live.Periods {
			out = append(out, p)
			seen[p.Name] = true
		}
	}
	for _, p := range staged.Periods {
		if !seen[p.Name] {
			out = append(out, p)
			seen[p.Name] = true
		}
	}
	return out
}

// savePlan validates the merged plan and writes it back.
func savePlan(ctx context.Context, plans repository.PlanRepo, p *domain.Plan) error {
	if err := domain.ValidatePlan(*p); err != nil {
		return fmt.Errorf("validating plan '%s': %w", p.Name, err)
	}
	p.UpdatedAt = time.Now().UTC()
	if err := plans.Save(ctx, p); err != nil {
		return fmt.Errorf("saving plan '%s': %w", p.Name, err)
	}
	return nil
}
