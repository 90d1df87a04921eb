package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadWith(memberNames ...string) *domain.StagingPayload {
	p := &domain.StagingPayload{}
	for _, n := range memberNames {
		p.Members = append(p.Members, testutil.NewTestMember(n))
	}
	return p
}

func TestStagingRepo_LoadMissingIsNil(t *testing.T) {
	repo := NewSQLiteStagingRepo(testutil.NewTestDB(t))

	got, err := repo.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.Load(context.Background(), "Q1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStagingRepo_SaveOverwrites(t *testing.T) {
	repo := NewSQLiteStagingRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, payloadWith("Alice", "Bob"), "Q1"))
	require.NoError(t, repo.Save(ctx, payloadWith("Carol"), "Q1"))

	got, err := repo.Load(ctx, "Q1")
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	assert.Equal(t, "Carol", got.Members[0].Name)
}

func TestStagingRepo_RoundTripsPayload(t *testing.T) {
	repo := NewSQLiteStagingRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	alice := testutil.NewTestMember("Alice")
	sprint := testutil.NewTestPeriod("Sprint 1")
	in := &domain.StagingPayload{
		Members:  []domain.Member{alice},
		Periods:  []domain.Period{sprint},
		WorkLogs: []domain.WorkLog{testutil.NewTestWorkLog(alice.ID, sprint.ID, "Alpha - Design", 6)},
	}
	require.NoError(t, repo.Save(ctx, in, ""))

	got, err := repo.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, in.Members, got.Members)
	assert.Equal(t, in.WorkLogs, got.WorkLogs)
	require.Len(t, got.Periods, 1)
	assert.True(t, got.Periods[0].StartDate.Equal(sprint.StartDate))
}

func TestStagingRepo_KeysAreIndependent(t *testing.T) {
	repo := NewSQLiteStagingRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, payloadWith("G"), ""))
	require.NoError(t, repo.Save(ctx, payloadWith("A"), "A"))
	require.NoError(t, repo.Save(ctx, payloadWith("B"), "B"))

	got, err := repo.Load(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Members[0].Name)

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Key.IsGlobal())
	assert.Equal(t, "A", entries[1].Key.PlanName)
	assert.Equal(t, "B", entries[2].Key.PlanName)
	assert.False(t, entries[2].StagedAt.IsZero())
}

func TestStagingRepo_Clear(t *testing.T) {
	tests := []struct {
		name     string
		target   domain.StagingTarget
		planName string
		remain   []string // plan names left, "" is global
	}{
		{"global", domain.TargetGlobal, "", []string{"A", "B"}},
		{"one plan", domain.TargetPlan, "A", []string{"", "B"}},
		{"missing plan is a no-op", domain.TargetPlan, "Z", []string{"", "A", "B"}},
		{"all", domain.TargetAll, "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewSQLiteStagingRepo(testutil.NewTestDB(t))
			ctx := context.Background()
			for _, key := range []string{"", "A", "B"} {
				require.NoError(t, repo.Save(ctx, payloadWith("x"), key))
			}

			require.NoError(t, repo.Clear(ctx, tc.target, tc.planName))

			entries, err := repo.List(ctx)
			require.NoError(t, err)
			var left []string
			for _, e := range entries {
				left = append(left, e.Key.PlanName)
			}
			assert.Equal(t, tc.remain, left)
		})
	}
}

func TestStagingRepo_ClearInvalidTarget(t *testing.T) {
	repo := NewSQLiteStagingRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	assert.ErrorIs(t, repo.Clear(ctx, "everything", ""), ErrInvalidClearTarget)
	assert.ErrorIs(t, repo.Clear(ctx, domain.TargetPlan, ""), ErrInvalidClearTarget)
}

func TestStagingRepo_InsideRolledBackTx(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewFailOnNthExecUoW(database, 2)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := NewSQLiteStagingRepo(tx)
		if err := repo.Save(ctx, payloadWith("first"), ""); err != nil {
			return err
		}
		return repo.Save(ctx, payloadWith("second"), "Q1")
	})
	assert.ErrorIs(t, err, testutil.ErrInjectedWrite)

	got, err := NewSQLiteStagingRepo(database).Load(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, got, "first save rolled back")
}
