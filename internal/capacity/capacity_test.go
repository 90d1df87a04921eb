package capacity

import (
	"testing"

	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capacityPlan() *domain.Plan {
	settings := domain.DefaultSettings()
	settings.DefaultDailyHours = 8

	alice := testutil.NewTestMember("Alice", testutil.WithBuffer(25), testutil.WithRatios(50, 50))
	bob := testutil.NewTestMember("Bob", testutil.WithBuffer(0), testutil.WithRatios(100, 0))
	s1 := testutil.NewTestPeriod("Sprint 1")
	s2 := testutil.NewTestPeriod("Sprint 2", testutil.WithDates("2025-01-20", "2025-01-31"), testutil.WithWorkingDays(9))

	return testutil.NewTestPlan("Q1",
		testutil.WithSettings(settings),
		testutil.WithMembers(alice, bob),
		testutil.WithPeriods(s1, s2),
		testutil.WithWorkLogs(
			testutil.NewTestWorkLog(alice.ID, s1.ID, "休暇", 8, testutil.WithWorkType(domain.WorkLeave)),
			testutil.NewTestWorkLog(alice.ID, s1.ID, "Alpha - Design", 12),
			testutil.NewTestWorkLog(alice.ID, s1.ID, "Alpha - Review", 8),
			testutil.NewTestWorkLog(alice.ID, s1.ID, "Beta - API", 30, testutil.WithWorkType(domain.WorkFeature)),
			testutil.NewTestWorkLog(bob.ID, s2.ID, "Alpha - Build", 70),
		),
	)
}

func TestCompute_LeaveBufferAndRatio(t *testing.T) {
	rows := Compute(*capacityPlan(), Options{WithBuffer: true})
	require.Len(t, rows, 4)

	// (10 days * 8h - 8h leave) * (1 - 25%) = 54, split 50/50.
	r := rows[0]
	assert.Equal(t, "Alice", r.MemberName)
	assert.Equal(t, "Sprint 1", r.PeriodName)
	assert.Equal(t, 10, r.WorkingDays)
	assert.InDelta(t, 80, r.Gross, 1e-9)
	assert.InDelta(t, 8, r.Leave, 1e-9)
	assert.InDelta(t, 54, r.Available, 1e-9)
	assert.InDelta(t, 27, r.Project.Capacity, 1e-9)
	assert.InDelta(t, 20, r.Project.Logged, 1e-9)
	assert.InDelta(t, 7, r.Project.Remaining, 1e-9)
	assert.InDelta(t, 27, r.Feature.Capacity, 1e-9)
	assert.InDelta(t, -3, r.Feature.Remaining, 1e-9, "overbooked feature work goes negative")
}

func TestCompute_WithoutBuffer(t *testing.T) {
	rows := Compute(*capacityPlan(), Options{})
	assert.InDelta(t, 72, rows[0].Available, 1e-9)
	assert.InDelta(t, 36, rows[0].Project.Capacity, 1e-9)
}

func TestCompute_RowOrderAndZeroRatio(t *testing.T) {
	rows := Compute(*capacityPlan(), Options{WithBuffer: true})

	var order []string
	for _, r := range rows {
		order = append(order, r.MemberName+"/"+r.PeriodName)
	}
	assert.Equal(t, []string{"Alice/Sprint 1", "Alice/Sprint 2", "Bob/Sprint 1", "Bob/Sprint 2"}, order)

	bobS2 := rows[3]
	assert.InDelta(t, 72, bobS2.Project.Capacity, 1e-9)
	assert.InDelta(t, 2, bobS2.Project.Remaining, 1e-9)
	assert.Zero(t, bobS2.Feature.Capacity)
}

func TestCompute_LeaveIsNotLoggedWork(t *testing.T) {
	rows := Compute(*capacityPlan(), Options{WithBuffer: true})
	r := rows[0]
	assert.InDelta(t, 20, r.Project.Logged, 1e-9)
	assert.InDelta(t, 30, r.Feature.Logged, 1e-9)
}

func TestCompute_EmptyPlan(t *testing.T) {
	assert.Empty(t, Compute(*domain.NewPlan("empty"), Options{WithBuffer: true}))
}

func TestTotal(t *testing.T) {
	rows := Compute(*capacityPlan(), Options{WithBuffer: true})
	total := Total(rows[:2])

	// Sprint 2: 9 days * 8h * 0.75 = 54 on top of Sprint 1's 54.
	assert.Equal(t, "Alice", total.MemberName)
	assert.Equal(t, 19, total.WorkingDays)
	assert.InDelta(t, 108, total.Available, 1e-9)
	assert.InDelta(t, 54, total.Project.Capacity, 1e-9)
	assert.InDelta(t, 34, total.Project.Remaining, 1e-9)
	assert.InDelta(t, 8, total.Leave, 1e-9)

	assert.Equal(t, Row{}, Total(nil))
}
