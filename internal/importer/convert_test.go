package importer

import (
	"errors"
	"testing"

	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threePeriods() []domain.Period {
	return []domain.Period{
		{ID: "p0", Name: "S1"},
		{ID: "p1", Name: "S2"},
		{ID: "p2", Name: "S3"},
	}
}

// fixedResolver resolves from a closed set and fails on anything else.
func fixedResolver(members ...domain.Member) MemberResolverFunc {
	return func(name string) (domain.Member, error) {
		for _, m := range members {
			if m.Name == name {
				return m, nil
			}
		}
		return domain.Member{}, errors.New("unknown member " + name)
	}
}

func TestConvert_SkipsZeroHours(t *testing.T) {
	rows, err := ParseWorkload("h\nproject,Alpha,Design,Bob,4,0,6\n")
	require.NoError(t, err)

	bob := domain.Member{ID: "bob", Name: "Bob"}
	res, err := Convert(rows, threePeriods(), nil, fixedResolver(bob))
	require.NoError(t, err)
	require.Len(t, res.WorkLogs, 2)
	assert.Empty(t, res.Warnings)

	first, second := res.WorkLogs[0], res.WorkLogs[1]
	assert.Equal(t, "bob", first.MemberID)
	assert.Equal(t, "p0", first.PeriodID)
	assert.Equal(t, domain.WorkProject, first.Type)
	assert.Equal(t, "Alpha - Design", first.TaskName)
	assert.Equal(t, 4.0, first.Hours)

	assert.Equal(t, "p2", second.PeriodID)
	assert.Equal(t, 6.0, second.Hours)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestConvert_NegativeHoursProduceNothing(t *testing.T) {
	rows := []WorkloadRow{{Row: 2, WorkType: "feature", ProjectName: "A", TaskName: "T", MemberName: "Bob", Hours: []float64{-3, 0, -0.5}}}

	res, err := Convert(rows, threePeriods(), []domain.Member{{ID: "bob", Name: "Bob"}}, fixedResolver())
	require.NoError(t, err)
	assert.Empty(t, res.WorkLogs)
}

func TestConvert_PeriodOutOfRangeWarns(t *testing.T) {
	rows := []WorkloadRow{{Row: 5, WorkType: "project", ProjectName: "A", TaskName: "T", MemberName: "Bob", Hours: []float64{1, 2, 3, 4, 0}}}

	res, err := Convert(rows, threePeriods(), []domain.Member{{ID: "bob", Name: "Bob"}}, fixedResolver())
	require.NoError(t, err)
	assert.Len(t, res.WorkLogs, 3)

	require.Len(t, res.Warnings, 1)
	w := res.Warnings[0]
	assert.Equal(t, WarnPeriodOutOfRange, w.Code)
	assert.Equal(t, 5, w.Row)
	assert.Equal(t, 8, w.Column)
}

func TestConvert_UnknownWorkTypeDefaultsToProject(t *testing.T) {
	rows := []WorkloadRow{
		{Row: 2, WorkType: "機能", ProjectName: "A", TaskName: "T", MemberName: "Bob", Hours: []float64{1}},
		{Row: 3, WorkType: "bugfix", ProjectName: "A", TaskName: "U", MemberName: "Bob", Hours: []float64{1}},
	}

	res, err := Convert(rows, threePeriods(), []domain.Member{{ID: "bob", Name: "Bob"}}, fixedResolver())
	require.NoError(t, err)
	require.Len(t, res.WorkLogs, 2)
	assert.Equal(t, domain.WorkFeature, res.WorkLogs[0].Type)
	assert.Equal(t, domain.WorkProject, res.WorkLogs[1].Type)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarnUnknownWorkType, res.Warnings[0].Code)
	assert.Equal(t, 3, res.Warnings[0].Row)
	assert.Contains(t, res.Warnings[0].String(), "bugfix")
}

func TestConvert_ResolvesEachNameOnce(t *testing.T) {
	calls := map[string]int{}
	resolver := MemberResolverFunc(func(name string) (domain.Member, error) {
		calls[name]++
		return domain.Member{ID: "id-" + name, Name: name}, nil
	})
	rows := []WorkloadRow{
		{Row: 2, WorkType: "project", ProjectName: "A", TaskName: "T", MemberName: "Bob", Hours: []float64{1}},
		{Row: 3, WorkType: "project", ProjectName: "A", TaskName: "U", MemberName: "Bob", Hours: []float64{1}},
		{Row: 4, WorkType: "project", ProjectName: "A", TaskName: "T", MemberName: "Eve", Hours: []float64{1}},
		{Row: 5, WorkType: "project", ProjectName: "A", TaskName: "T", MemberName: "Ann", Hours: []float64{1}},
	}

	res, err := Convert(rows, threePeriods(), []domain.Member{{ID: "ann", Name: "Ann"}}, resolver)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Bob": 1, "Eve": 1}, calls)
	assert.Equal(t, "ann", res.WorkLogs[3].MemberID)
	assert.Equal(t, "id-Bob", res.WorkLogs[1].MemberID)
}

func TestConvert_ResolverErrorAborts(t *testing.T) {
	rows := []WorkloadRow{{Row: 7, WorkType: "project", ProjectName: "A", TaskName: "T", MemberName: "Ghost", Hours: []float64{1}}}

	res, err := Convert(rows, threePeriods(), nil, fixedResolver())
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 7")
}

func TestMemberRegistry(t *testing.T) {
	live := []domain.Member{{ID: "a", Name: "Alice"}}
	staged := []domain.Member{{ID: "b", Name: "Alice"}, {ID: "c", Name: "Carol"}}
	reg := NewMemberRegistry(live, staged)

	alice, err := reg.ResolveMember("Alice")
	require.NoError(t, err)
	assert.Equal(t, "a", alice.ID)

	carol, err := reg.ResolveMember("Carol")
	require.NoError(t, err)
	assert.Equal(t, "c", carol.ID)
	assert.Empty(t, reg.Created())

	dave, err := reg.ResolveMember("Dave")
	require.NoError(t, err)
	assert.NotEmpty(t, dave.ID)
	assert.Equal(t, float64(domain.DefaultMemberBuffer), dave.Buffer)
	assert.Equal(t, float64(domain.DefaultMemberProjectRatio), dave.ProjectRatio)
	assert.Equal(t, float64(domain.DefaultMemberFeatureRatio), dave.FeatureRatio)

	again, err := reg.ResolveMember("Dave")
	require.NoError(t, err)
	assert.Equal(t, dave.ID, again.ID)
	require.Len(t, reg.Created(), 1)
	assert.Equal(t, "Dave", reg.Created()[0].Name)
}
