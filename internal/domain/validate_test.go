package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlan() Plan {
	return Plan{
		ID:   "plan-1",
		Name: "Q1",
		Members: []Member{
			{ID: "m1", Name: "Alice", Buffer: 5, ProjectRatio: 50, FeatureRatio: 50},
		},
		Periods: []Period{
			{ID: "p1", Name: "Sprint 1", StartDate: MustParseDate("2025-01-06"), EndDate: MustParseDate("2025-01-17"), WorkingDays: 10},
		},
		WorkLogs: []WorkLog{
			{ID: "w1", MemberID: "m1", PeriodID: "p1", Type: WorkProject, TaskName: "Alpha - Design", Hours: 8},
		},
		Settings: DefaultSettings(),
	}
}

func TestValidatePlan_Valid(t *testing.T) {
	require.NoError(t, ValidatePlan(validPlan()))
}

func TestValidatePlan_DuplicateMemberName(t *testing.T) {
	p := validPlan()
	p.Members = append(p.Members, Member{ID: "m2", Name: "Alice"})

	err := ValidatePlan(p)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestValidatePlan_DuplicatePeriodName(t *testing.T) {
	p := validPlan()
	p.Periods = append(p.Periods, Period{ID: "p2", Name: "Sprint 1"})

	err := ValidatePlan(p)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestValidatePlan_DuplicateIDs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Plan)
	}{
		{"member", func(p *Plan) {
			p.Members = append(p.Members, Member{ID: "m1", Name: "Bob"})
		}},
		{"period", func(p *Plan) {
			p.Periods = append(p.Periods, Period{ID: "p1", Name: "Sprint 2", StartDate: MustParseDate("2025-01-20"), EndDate: MustParseDate("2025-01-31")})
		}},
		{"work log", func(p *Plan) {
			p.WorkLogs = append(p.WorkLogs, WorkLog{ID: "w1", MemberID: "m1", PeriodID: "p1", Type: WorkFeature, TaskName: "Beta", Hours: 1})
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlan()
			tc.mutate(&p)
			assert.ErrorIs(t, ValidatePlan(p), ErrDuplicateID)
		})
	}
}

func TestValidatePlan_DanglingMember(t *testing.T) {
	p := validPlan()
	p.WorkLogs[0].MemberID = "ghost"

	err := ValidatePlan(p)
	assert.ErrorIs(t, err, ErrDanglingReference)
	assert.Contains(t, err.Error(), "ghost")
}

func TestValidatePlan_DanglingPeriod(t *testing.T) {
	p := validPlan()
	p.WorkLogs[0].PeriodID = "ghost"

	assert.ErrorIs(t, ValidatePlan(p), ErrDanglingReference)
}

func TestValidatePlan_NegativeHours(t *testing.T) {
	p := validPlan()
	p.WorkLogs[0].Hours = -1

	assert.ErrorIs(t, ValidatePlan(p), ErrInvalidRecord)
}

func TestValidatePlan_BufferOutOfRange(t *testing.T) {
	p := validPlan()
	p.Members[0].Buffer = 120

	assert.ErrorIs(t, ValidatePlan(p), ErrInvalidRecord)
}

func TestValidatePlan_UnknownWorkType(t *testing.T) {
	p := validPlan()
	p.WorkLogs[0].Type = "meeting"

	assert.ErrorIs(t, ValidatePlan(p), ErrInvalidRecord)
}

func TestParseWorkTypeLabel(t *testing.T) {
	cases := []struct {
		label string
		want  WorkType
		known bool
	}{
		{"project", WorkProject, true},
		{"Project", WorkProject, true},
		{"  PROJECT ", WorkProject, true},
		{"プロジェクト", WorkProject, true},
		{"feature", WorkFeature, true},
		{"Feature", WorkFeature, true},
		{"フィーチャー", WorkFeature, true},
		{"機能", WorkFeature, true},
		{"leave", WorkProject, false},
		{"bugfix", WorkProject, false},
		{"", WorkProject, false},
	}
	for _, tc := range cases {
		got, known := ParseWorkTypeLabel(tc.label)
		assert.Equal(t, tc.want, got, "label=%q", tc.label)
		assert.Equal(t, tc.known, known, "label=%q", tc.label)
	}
}

func TestDate_JSON(t *testing.T) {
	p := Period{ID: "p1", Name: "Sprint 1", StartDate: MustParseDate("2025-01-01"), EndDate: MustParseDate("2025-01-14")}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"startDate":"2025-01-01"`)
	assert.Contains(t, string(data), `"endDate":"2025-01-14"`)

	var back Period
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.StartDate.Equal(p.StartDate))
	assert.True(t, back.EndDate.Equal(p.EndDate))
}

func TestParseDate_RejectsImpossibleDay(t *testing.T) {
	_, err := ParseDate("2025-02-30")
	assert.Error(t, err)
}

func TestPlanClone_DoesNotAlias(t *testing.T) {
	p := validPlan()
	c := p.Clone()
	c.Members[0].Name = "Changed"
	c.WorkLogs = append(c.WorkLogs, WorkLog{ID: "w2"})

	assert.Equal(t, "Alice", p.Members[0].Name)
	assert.Len(t, p.WorkLogs, 1)
}

func TestStagingPayload_IsEmpty(t *testing.T) {
	var nilPayload *StagingPayload
	assert.True(t, nilPayload.IsEmpty())
	assert.True(t, (&StagingPayload{}).IsEmpty())
	assert.False(t, (&StagingPayload{Members: []Member{{ID: "m1", Name: "A"}}}).IsEmpty())
}
