package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/loadplan/internal/calendar"
	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/repository"
	"github.com/alexanderramin/loadplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service against one in-memory store.
type testEnv struct {
	db      *sql.DB
	plans   PlanService
	imports ImportService
	staging StagingService
	recon   ReconcileService
	exports ExportService
	edits   EditService
}

func newTestEnv(t *testing.T, holidays calendar.Holidays) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newTestEnvWithUoW(database, testutil.NewTestUoW(database), holidays)
}

func newTestEnvWithUoW(database *sql.DB, uow db.UnitOfWork, holidays calendar.Holidays) *testEnv {
	fetcher := calendar.StaticHolidays(holidays)
	return &testEnv{
		db:      database,
		plans:   NewPlanService(uow, fetcher, nil),
		imports: NewImportService(uow, fetcher, nil),
		staging: NewStagingService(uow),
		recon:   NewReconcileService(uow),
		exports: NewExportService(uow),
		edits:   NewEditService(uow, fetcher, nil),
	}
}

// seedActivePlan stores p directly and makes it active.
func seedActivePlan(t *testing.T, database *sql.DB, p *domain.Plan) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repository.NewSQLitePlanRepo(database).Create(ctx, p))
	require.NoError(t, repository.NewSQLiteStateRepo(database).SetActivePlanID(ctx, p.ID))
}

// stageRaw writes a payload straight into a bucket, the way another
// process would.
func stageRaw(t *testing.T, database *sql.DB, payload *domain.StagingPayload, planName string) {
	t.Helper()
	require.NoError(t, repository.NewSQLiteStagingRepo(database).Save(context.Background(), payload, planName))
}

func loadPlan(t *testing.T, database *sql.DB, id string) *domain.Plan {
	t.Helper()
	p, err := repository.NewSQLitePlanRepo(database).Get(context.Background(), id)
	require.NoError(t, err)
	return p
}

const threePeriodsCSV = "name,startDate,endDate\n" +
	"S1,2025-01-06,2025-01-17\n" +
	"S2,2025-01-20,2025-01-31\n" +
	"S3,2025-02-03,2025-02-14\n"
