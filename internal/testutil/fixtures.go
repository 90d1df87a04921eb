package testutil

import (
	"time"

	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/google/uuid"
)

// Plan options
type PlanOption func(*domain.Plan)

func WithPlanID(id string) PlanOption {
	return func(p *domain.Plan) {
		p.ID = id
	}
}

func WithMembers(ms ...domain.Member) PlanOption {
	return func(p *domain.Plan) {
		p.Members = append(p.Members, ms...)
	}
}

func WithPeriods(ps ...domain.Period) PlanOption {
	return func(p *domain.Plan) {
		p.Periods = append(p.Periods, ps...)
	}
}

func WithWorkLogs(ls ...domain.WorkLog) PlanOption {
	return func(p *domain.Plan) {
		p.WorkLogs = append(p.WorkLogs, ls...)
	}
}

func WithSettings(s domain.Settings) PlanOption {
	return func(p *domain.Plan) {
		p.Settings = s
	}
}

func NewTestPlan(name string, opts ...PlanOption) *domain.Plan {
	p := domain.NewPlan(name)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Member options
type MemberOption func(*domain.Member)

func WithMemberID(id string) MemberOption {
	return func(m *domain.Member) {
		m.ID = id
	}
}

func WithBuffer(b float64) MemberOption {
	return func(m *domain.Member) {
		m.Buffer = b
	}
}

func WithRatios(project, feature float64) MemberOption {
	return func(m *domain.Member) {
		m.ProjectRatio = project
		m.FeatureRatio = feature
	}
}

func NewTestMember(name string, opts ...MemberOption) domain.Member {
	m := domain.NewMember(name)
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Period options
type PeriodOption func(*domain.Period)

func WithPeriodID(id string) PeriodOption {
	return func(p *domain.Period) {
		p.ID = id
	}
}

func WithDates(start, end string) PeriodOption {
	return func(p *domain.Period) {
		p.StartDate = domain.MustParseDate(start)
		p.EndDate = domain.MustParseDate(end)
	}
}

func WithWorkingDays(n int) PeriodOption {
	return func(p *domain.Period) {
		p.WorkingDays = n
	}
}

// NewTestPeriod creates a two-week period starting on the first Monday of
// 2025 unless overridden.
func NewTestPeriod(name string, opts ...PeriodOption) domain.Period {
	start := domain.NewDate(2025, time.January, 6)
	p := domain.NewPeriod(name, start, start.AddDays(11), 10)
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WorkLog options
type WorkLogOption func(*domain.WorkLog)

func WithWorkType(t domain.WorkType) WorkLogOption {
	return func(l *domain.WorkLog) {
		l.Type = t
	}
}

func WithWorkLogID(id string) WorkLogOption {
	return func(l *domain.WorkLog) {
		l.ID = id
	}
}

func NewTestWorkLog(memberID, periodID, taskName string, hours float64, opts ...WorkLogOption) domain.WorkLog {
	l := domain.WorkLog{
		ID:       uuid.New().String(),
		MemberID: memberID,
		PeriodID: periodID,
		Type:     domain.WorkProject,
		TaskName: taskName,
		Hours:    hours,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}
