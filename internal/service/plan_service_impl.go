package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/alexanderramin/loadplan/internal/calendar"
	"github.com/alexanderramin/loadplan/internal/capacity"
	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/domain"
)

type planService struct {
	uow      db.UnitOfWork
	holidays calendar.HolidayFetcher
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewPlanService(
	uow db.UnitOfWork,
	holidays calendar.HolidayFetcher,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) PlanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &planService{
		uow:      uow,
		holidays: holidays,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Create(ctx context.Context, name string) (plan *domain.Plan, err error) {
	fields := map[string]any{"plan": name}
	done := observe(ctx, s.observer, "create-plan", fields)
	defer func() { done(err) }()

	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}

	p := domain.NewPlan(name)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		if err := r.plans.Create(ctx, p); err != nil {
			return fmt.Errorf("creating plan '%s': %w", name, err)
		}
		return r.state.SetActivePlanID(ctx, p.ID)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *planService) List(ctx context.Context) ([]*domain.Plan, error) {
	var plans []*domain.Plan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		plans, err = reposFor(tx).plans.List(ctx)
		return err
	})
	return plans, err
}

func (s *planService) Get(ctx context.Context, id string) (*domain.Plan, error) {
	var p *domain.Plan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		p, err = reposFor(tx).plans.Get(ctx, id)
		return err
	})
	return p, err
}

func (s *planService) GetByName(ctx context.Context, name string) (*domain.Plan, error) {
	var p *domain.Plan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		p, err = reposFor(tx).planByName(ctx, name, false)
		return err
	})
	return p, err
}

func (s *planService) Active(ctx context.Context) (*domain.Plan, error) {
	var p *domain.Plan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		p, err = reposFor(tx).activePlan(ctx, false)
		return err
	})
	return p, err
}

func (s *planService) SetActive(ctx context.Context, name string) (plan *domain.Plan, err error) {
	done := observe(ctx, s.observer, "switch-plan", map[string]any{"plan": name})
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		p, err := r.planByName(ctx, name, false)
		if err != nil {
			return err
		}
		plan = p
		return r.state.SetActivePlanID(ctx, p.ID)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) Rename(ctx context.Context, oldName, newName string) (plan *domain.Plan, err error) {
	done := observe(ctx, s.observer, "rename-plan", map[string]any{"from": oldName, "to": newName})
	defer func() { done(err) }()

	newName, err = normalizeName(newName)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		p, err := r.planByName(ctx, oldName, false)
		if err != nil {
			return err
		}
		plan = p
		if p.Name == newName {
			return nil
		}
		if err := r.plans.Rename(ctx, p.ID, newName); err != nil {
			return fmt.Errorf("renaming plan '%s': %w", oldName, err)
		}
		p.Name = newName
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) Delete(ctx context.Context, name string) (err error) {
	done := observe(ctx, s.observer, "delete-plan", map[string]any{"plan": name})
	defer func() { done(err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		p, err := r.planByName(ctx, name, false)
		if err != nil {
			return err
		}
		activeID, err := r.state.ActivePlanID(ctx)
		if err != nil {
			return fmt.Errorf("reading active plan: %w", err)
		}
		if err := r.plans.Delete(ctx, p.ID); err != nil {
			return fmt.Errorf("deleting plan '%s': %w", name, err)
		}
		if activeID != p.ID {
			return nil
		}

		remaining, err := r.plans.List(ctx)
		if err != nil {
			return fmt.Errorf("listing plans: %w", err)
		}
		next := ""
		if len(remaining) > 0 {
			next = remaining[0].ID
		}
		return r.state.SetActivePlanID(ctx, next)
	})
}

// UpdateSettings applies upd to the named plan ("" for the active one).
// When the calendar settings change, every period's working days are
// recomputed.
func (s *planService) UpdateSettings(ctx context.Context, name string, upd SettingsUpdate) (plan *domain.Plan, err error) {
	fields := map[string]any{"plan": name}
	done := observe(ctx, s.observer, "update-settings", fields)
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		p, err := r.resolvePlan(ctx, name, false)
		if err != nil {
			return err
		}

		before := p.Settings
		p.Settings = applySettings(p.Settings, upd)
		if err := domain.ValidateRecord(p.Settings); err != nil {
			return err
		}

		if calendarChanged(before, p.Settings) && len(p.Periods) > 0 {
			var holidays calendar.Holidays
			if p.Settings.ConsiderPublicHolidays {
				holidays = calendar.FetchOrEmpty(ctx, s.holidays, s.logger)
			}
			for i := range p.Periods {
				per := &p.Periods[i]
				per.WorkingDays = calendar.WorkingDays(per.StartDate, per.EndDate, holidays, p.Settings)
			}
			fields["periods_recomputed"] = len(p.Periods)
		}

		p.UpdatedAt = time.Now().UTC()
		if err := r.plans.Save(ctx, p); err != nil {
			return fmt.Errorf("saving plan '%s': %w", p.Name, err)
		}
		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) Capacity(ctx context.Context, name string, opts capacity.Options) (*CapacityResult, error) {
	var res *CapacityResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := reposFor(tx).resolvePlan(ctx, name, false)
		if err != nil {
			return err
		}
		res = &CapacityResult{Plan: p, Rows: capacity.Compute(*p, opts)}
		return nil
	})
	return res, err
}

func applySettings(cur domain.Settings, upd SettingsUpdate) domain.Settings {
	out := cur
	out.DefaultDailyHours = domain.Overlay(cur.DefaultDailyHours, upd.DefaultDailyHours)
	out.ConsiderPublicHolidays = domain.Overlay(cur.ConsiderPublicHolidays, upd.ConsiderPublicHolidays)

	holidays := slices.Clone(cur.CompanyHolidays)
	if upd.ReplaceHolidays {
		holidays = nil
	}
	for _, d := range upd.CompanyHolidays {
		if !slices.ContainsFunc(holidays, d.Equal) {
			holidays = append(holidays, d)
		}
	}
	slices.SortFunc(holidays, func(a, b domain.Date) int { return a.Time().Compare(b.Time()) })
	if holidays == nil {
		holidays = []domain.Date{}
	}
	out.CompanyHolidays = holidays
	return out
}

func calendarChanged(a, b domain.Settings) bool {
	return a.ConsiderPublicHolidays != b.ConsiderPublicHolidays ||
		!slices.EqualFunc(a.CompanyHolidays, b.CompanyHolidays, domain.Date.Equal)
}
