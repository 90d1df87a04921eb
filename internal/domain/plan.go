package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// DefaultPlanName is used when an import needs a plan and none exists.
const DefaultPlanName = "Default Plan"

type Settings struct {
	DefaultDailyHours      float64 `json:"defaultDailyHours" validate:"gte=0,lte=24"`
	ConsiderPublicHolidays bool    `json:"considerPublicHolidays"`
	CompanyHolidays        []Date  `json:"companyHolidays"`
}

func DefaultSettings() Settings {
	return Settings{
		DefaultDailyHours:      7.5,
		ConsiderPublicHolidays: true,
		CompanyHolidays:        []Date{},
	}
}

// IsCompanyHoliday reports whether d is listed as a company holiday.
func (s Settings) IsCompanyHoliday(d Date) bool {
	return slices.ContainsFunc(s.CompanyHolidays, d.Equal)
}

// Plan is an isolated workspace of members, periods, work logs and settings.
type Plan struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Members   []Member  `json:"members"`
	Periods   []Period  `json:"periods"`
	WorkLogs  []WorkLog `json:"workLogs"`
	Settings  Settings  `json:"settings"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// NewPlan creates an empty plan with default settings.
func NewPlan(name string) *Plan {
	now := time.Now().UTC()
	return &Plan{
		ID:        uuid.New().String(),
		Name:      name,
		Members:   []Member{},
		Periods:   []Period{},
		WorkLogs:  []WorkLog{},
		Settings:  DefaultSettings(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so callers can derive a new plan without
// aliasing the original's slices.
func (p Plan) Clone() Plan {
	c := p
	c.Members = slices.Clone(p.Members)
	c.Periods = slices.Clone(p.Periods)
	c.WorkLogs = slices.Clone(p.WorkLogs)
	c.Settings.CompanyHolidays = slices.Clone(p.Settings.CompanyHolidays)
	return c
}

func (p *Plan) MemberByName(name string) (Member, bool) {
	i := slices.IndexFunc(p.Members, func(m Member) bool { return m.Name == name })
	if i < 0 {
		return Member{}, false
	}
	return p.Members[i], true
}

func (p *Plan) PeriodByName(name string) (Period, bool) {
	i := slices.IndexFunc(p.Periods, func(x Period) bool { return x.Name == name })
	if i < 0 {
		return Period{}, false
	}
	return p.Periods[i], true
}

// HoursFor sums the hours a member logged in a period for one work type.
func (p *Plan) HoursFor(memberID, periodID string, wt WorkType) float64 {
	var total float64
	for _, l := range p.WorkLogs {
		if l.MemberID == memberID && l.PeriodID == periodID && l.Type == wt {
			total += l.Hours
		}
	}
	return total
}
