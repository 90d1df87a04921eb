package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/alexanderramin/loadplan/internal/calendar"
	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/repository"
	"github.com/google/uuid"
)

// defaultLeaveTask is the task name of a leave entry recorded without one.
const defaultLeaveTask = "leave"

type editService struct {
	uow      db.UnitOfWork
	holidays calendar.HolidayFetcher
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewEditService(
	uow db.UnitOfWork,
	holidays calendar.HolidayFetcher,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) EditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &editService{
		uow:      uow,
		holidays: holidays,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

// edit loads the plan, lets fn change it and saves it validated, all in
// one transaction. Nothing is written when fn or validation fails.
func (s *editService) edit(ctx context.Context, planName string, fn func(p *domain.Plan) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		p, err := r.resolvePlan(ctx, planName, false)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		return savePlan(ctx, r.plans, p)
	})
}

func (s *editService) AddMember(ctx context.Context, planName, name string, upd MemberUpdate) (member *domain.Member, err error) {
	done := observe(ctx, s.observer, "add-member", map[string]any{"plan": planName, "member": name})
	defer func() { done(err) }()

	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}
	upd.Name = nil

	err = s.edit(ctx, planName, func(p *domain.Plan) error {
		m := applyMember(domain.NewMember(name), upd)
		p.Members = append(p.Members, m)
		member = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *editService) UpdateMember(ctx context.Context, planName, name string, upd MemberUpdate) (member *domain.Member, err error) {
	done := observe(ctx, s.observer, "update-member", map[string]any{"plan": planName, "member": name})
	defer func() { done(err) }()

	if upd.Name != nil {
		newName, err := normalizeName(*upd.Name)
		if err != nil {
			return nil, err
		}
		upd.Name = &newName
	}

	err = s.edit(ctx, planName, func(p *domain.Plan) error {
		i, err := memberIndex(p, name)
		if err != nil {
			return err
		}
		p.Members[i] = applyMember(p.Members[i], upd)
		m := p.Members[i]
		member = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *editService) DeleteMember(ctx context.Context, planName, name string) (removed int, err error) {
	fields := map[string]any{"plan": planName, "member": name}
	done := observe(ctx, s.observer, "delete-member", fields)
	defer func() { done(err) }()

	err = s.edit(ctx, planName, func(p *domain.Plan) error {
		i, err := memberIndex(p, name)
		if err != nil {
			return err
		}
		id := p.Members[i].ID
		p.Members = slices.Delete(p.Members, i, i+1)
		removed = dropLogs(p, func(l domain.WorkLog) bool { return l.MemberID == id })
		return nil
	})
	if err != nil {
		return 0, err
	}
	fields["logs_removed"] = removed
	return removed, nil
}

func (s *editService) AddPeriod(ctx context.Context, planName, name string, start, end domain.Date) (period *domain.Period, err error) {
	done := observe(ctx, s.observer, "add-period", map[string]any{"plan": planName, "period": name})
	defer func() { done(err) }()

	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("period '%s': %w", name, ErrInvalidRange)
	}
	holidays := calendar.FetchOrEmpty(ctx, s.holidays, s.logger)

	err = s.edit(ctx, planName, func(p *domain.Plan) error {
		per := domain.NewPeriod(name, start, end, calendar.WorkingDays(start, end, holidays, p.Settings))
		p.Periods = append(p.Periods, per)
		period = &per
		return nil
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

func (s *editService) UpdatePeriod(ctx context.Context, planName, name string, upd PeriodUpdate) (period *domain.Period, err error) {
	done := observe(ctx, s.observer, "update-period", map[string]any{"plan": planName, "period": name})
	defer func() { done(err) }()

	if upd.Name != nil {
		newName, err := normalizeName(*upd.Name)
		if err != nil {
			return nil, err
		}
		upd.Name = &newName
	}
	var holidays calendar.Holidays
	if upd.StartDate != nil || upd.EndDate != nil {
		holidays = calendar.FetchOrEmpty(ctx, s.holidays, s.logger)
	}

	err = s.edit(ctx, planName, func(p *domain.Plan) error {
		i, err := periodIndex(p, name)
		if err != nil {
			return err
		}
		per := p.Periods[i]
		per.Name = domain.Overlay(per.Name, upd.Name)
		per.StartDate = domain.Overlay(per.StartDate, upd.StartDate)
		per.EndDate = domain.Overlay(per.EndDate, upd.EndDate)
		if per.EndDate.Before(per.StartDate) {
			return fmt.Errorf("period '%s': %w", name, ErrInvalidRange)
		}
		if upd.StartDate != nil || upd.EndDate != nil {
			per.WorkingDays = calendar.WorkingDays(per.StartDate, per.EndDate, holidays, p.Settings)
		}
		p.Periods[i] = per
		period = &per
		return nil
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

func (s *editService) DeletePeriod(ctx context.Context, planName, name string) (removed int, err error) {
	fields := map[string]any{"plan": planName, "period": name}
	done := observe(ctx, s.observer, "delete-period", fields)
	defer func() { done(err) }()

	err = s.edit(ctx, planName, func(p *domain.Plan) error {
		i, err := periodIndex(p, name)
		if err != nil {
			return err
		}
		id := p.Periods[i].ID
		p.Periods = slices.Delete(p.Periods, i, i+1)
		removed = dropLogs(p, func(l domain.WorkLog) bool { return l.PeriodID == id })
		return nil
	})
	if err != nil {
		return 0, err
	}
	fields["logs_removed"] = removed
	return removed, nil
}

func (s *editService) AddLog(ctx context.Context, planName string, entry LogEntry) (log *domain.WorkLog, err error) {
	fields := map[string]any{"plan": planName, "member": entry.Member, "period": entry.Period, "type": string(entry.Type)}
	done := observe(ctx, s.observer, "add-log", fields)
	defer func() { done(err) }()

	if !entry.Type.Valid() {
		return nil, fmt.Errorf("%q: %w", entry.Type, ErrInvalidWorkType)
	}
	task := strings.TrimSpace(entry.TaskName)
	if task == "" {
		if entry.Type != domain.WorkLeave {
			return nil, ErrEmptyTaskName
		}
		task = defaultLeaveTask
	}

	err = s.edit(ctx, planName, func(p *domain.Plan) error {
		mi, err := memberIndex(p, entry.Member)
		if err != nil {
			return err
		}
		pi, err := periodIndex(p, entry.Period)
		if err != nil {
			return err
		}
		l := domain.WorkLog{
			ID:       uuid.New().String(),
			MemberID: p.Members[mi].ID,
			PeriodID: p.Periods[pi].ID,
			Type:     entry.Type,
			TaskName: task,
			Hours:    entry.Hours,
		}
		p.WorkLogs = append(p.WorkLogs, l)
		log = &l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

func (s *editService) UpdateLog(ctx context.Context, planName, id string, upd LogUpdate) (log *domain.WorkLog, err error) {
	done := observe(ctx, s.observer, "update-log", map[string]any{"plan": planName, "log": id})
	defer func() { done(err) }()

	err = s.edit(ctx, planName, func(p *domain.Plan) error {
		i, err := logIndex(p, id)
		if err != nil {
			return err
		}
		l := &p.WorkLogs[i]
		if upd.TaskName != nil {
			task := strings.TrimSpace(*upd.TaskName)
			if task == "" && l.Type != domain.WorkLeave {
				return ErrEmptyTaskName
			}
			l.TaskName = domain.NameOr(task, defaultLeaveTask)
		}
		l.Hours = domain.Overlay(l.Hours, upd.Hours)
		cp := *l
		log = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

func (s *editService) DeleteLog(ctx context.Context, planName, id string) (err error) {
	done := observe(ctx, s.observer, "delete-log", map[string]any{"plan": planName, "log": id})
	defer func() { done(err) }()

	return s.edit(ctx, planName, func(p *domain.Plan) error {
		i, err := logIndex(p, id)
		if err != nil {
			return err
		}
		p.WorkLogs = slices.Delete(p.WorkLogs, i, i+1)
		return nil
	})
}

func applyMember(m domain.Member, upd MemberUpdate) domain.Member {
	m.Name = domain.Overlay(m.Name, upd.Name)
	m.Buffer = domain.Overlay(m.Buffer, upd.Buffer)
	m.ProjectRatio = domain.Overlay(m.ProjectRatio, upd.ProjectRatio)
	m.FeatureRatio = domain.Overlay(m.FeatureRatio, upd.FeatureRatio)
	return m
}

func memberIndex(p *domain.Plan, name string) (int, error) {
	i := slices.IndexFunc(p.Members, func(m domain.Member) bool { return m.Name == name })
	if i < 0 {
		return -1, fmt.Errorf("member '%s': %w", name, repository.ErrNotFound)
	}
	return i, nil
}

func periodIndex(p *domain.Plan, name string) (int, error) {
	i := slices.IndexFunc(p.Periods, func(x domain.Period) bool { return x.Name == name })
	if i < 0 {
		return -1, fmt.Errorf("period '%s': %w", name, repository.ErrNotFound)
	}
	return i, nil
}

// logIndex finds a work log by full ID or by a prefix as short as the one
// the log table prints.
func logIndex(p *domain.Plan, id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1, fmt.Errorf("work log: %w", repository.ErrNotFound)
	}
	found := -1
	for i, l := range p.WorkLogs {
		if l.ID == id {
			return i, nil
		}
		if strings.HasPrefix(l.ID, id) {
			if found >= 0 {
				return -1, fmt.Errorf("work log '%s': %w", id, ErrAmbiguousID)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("work log '%s': %w", id, repository.ErrNotFound)
	}
	return found, nil
}

// dropLogs removes the matching work logs and reports how many went.
func dropLogs(p *domain.Plan, match func(domain.WorkLog) bool) int {
	before := len(p.WorkLogs)
	p.WorkLogs = slices.DeleteFunc(p.WorkLogs, match)
	return before - len(p.WorkLogs)
}
