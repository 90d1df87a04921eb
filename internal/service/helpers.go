package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/repository"
)

var (
	// ErrMissingPrerequisite is returned when a workload import has no
	// periods to attribute hours to.
	ErrMissingPrerequisite = errors.New("please import periods first")

	// ErrNoPlan is returned when a use case needs a plan and none exists.
	ErrNoPlan = errors.New("no plan exists")

	// ErrEmptyName is returned for blank plan, member or period names.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrEmptyTaskName is returned for a project or feature log without a task.
	ErrEmptyTaskName = errors.New("task name must not be empty")

	// ErrInvalidRange is returned for a period that ends before it starts.
	ErrInvalidRange = errors.New("end date is before start date")

	// ErrInvalidWorkType is returned for a work type other than project,
	// feature or leave.
	ErrInvalidWorkType = errors.New("work type must be project, feature or leave")

	// ErrAmbiguousID is returned when an ID prefix matches several work logs.
	ErrAmbiguousID = errors.New("ambiguous id prefix")
)

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	plans   repository.PlanRepo
	state   repository.StateRepo
	staging repository.StagingRepo
}

func reposFor(tx db.DBTX) txRepos {
	return txRepos{
		plans:   repository.NewSQLitePlanRepo(tx),
		state:   repository.NewSQLiteStateRepo(tx),
		staging: repository.NewSQLiteStagingRepo(tx),
	}
}

// activePlan returns the plan the state points at. A missing or stale
// pointer falls back to the first plan, which becomes active. With create
// set and no plans at all, an empty default plan is created and activated.
func (r txRepos) activePlan(ctx context.Context, create bool) (*domain.Plan, error) {
	id, err := r.state.ActivePlanID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading active plan: %w", err)
	}
	if id != "" {
		p, err := r.plans.Get(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("loading active plan: %w", err)
		}
	}

	plans, err := r.plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	if len(plans) > 0 {
		if err := r.state.SetActivePlanID(ctx, plans[0].ID); err != nil {
			return nil, fmt.Errorf("activating plan: %w", err)
		}
		return plans[0], nil
	}
	if !create {
		return nil, ErrNoPlan
	}

	p := domain.NewPlan(domain.DefaultPlanName)
	if err := r.plans.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating default plan: %w", err)
	}
	if err := r.state.SetActivePlanID(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("activating plan: %w", err)
	}
	return p, nil
}

// planByName loads a plan by name, creating it when create is set.
func (r txRepos) planByName(ctx context.Context, name string, create bool) (*domain.Plan, error) {
	p, err := r.plans.GetByName(ctx, name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) || !create {
		return nil, fmt.Errorf("plan '%s': %w", name, err)
	}
	p = domain.NewPlan(name)
	if err := r.plans.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating plan '%s': %w", name, err)
	}
	return p, nil
}

// resolvePlan maps a staging key to its live plan: the global bucket
// belongs to the active plan, a plan bucket to the plan of that name.
func (r txRepos) resolvePlan(ctx context.Context, planName string, create bool) (*domain.Plan, error) {
	if planName == "" {
		return r.activePlan(ctx, create)
	}
	return r.planByName(ctx, planName, create)
}

// isMissingPlan reports whether err means the plan a use case looked for
// does not exist.
func isMissingPlan(err error) bool {
	return errors.Is(err, ErrNoPlan) || errors.Is(err, repository.ErrNotFound)
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}
