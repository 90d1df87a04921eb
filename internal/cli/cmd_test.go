package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/loadplan/internal/calendar"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/service"
	"github.com/alexanderramin/loadplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	periodsCSV  = "name,startDate,endDate\nS1,2025-01-06,2025-01-17\nS2,2025-01-20,2025-01-31\n"
	workloadCSV = "type,project,task,member,S1,S2\nproject,Alpha,Design,Bob,4,0\nfeature,Beta,API,Bob,0,2.5\n"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	holidays := calendar.StaticHolidays(nil)

	return &App{
		Plans:     service.NewPlanService(uow, holidays, nil),
		Imports:   service.NewImportService(uow, holidays, nil),
		Staging:   service.NewStagingService(uow),
		Reconcile: service.NewReconcileService(uow),
		Exports:   service.NewExportService(uow),
		Edits:     service.NewEditService(uow, holidays, nil),
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	return executeCmdWithInput(t, app, "", args...)
}

func executeCmdWithInput(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- plan ---

func TestPlanCmd_Lifecycle(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "plan", "create", "Q1")
	require.NoError(t, err)
	assert.Contains(t, out, "Created plan Q1")

	_, err = executeCmd(t, app, "plan", "create", "Q2")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Q1")
	assert.Contains(t, out, "Q2")

	out, err = executeCmd(t, app, "plan", "use", "Q1")
	require.NoError(t, err)
	assert.Contains(t, out, "Active plan: Q1")

	out, err = executeCmd(t, app, "plan", "rename", "Q2", "Q3")
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed Q2 to Q3")

	out, err = executeCmd(t, app, "plan", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Q1 (ACTIVE)")
	assert.Contains(t, out, "No periods imported.")

	_, err = executeCmd(t, app, "plan", "delete", "Q1")
	require.NoError(t, err)
	active, err := app.Plans.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Q3", active.Name)
}

func TestPlanCmd_CreateRequiresName(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "plan", "create")
	assert.Error(t, err)
}

func TestPlanCmd_ShowWithoutPlans(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "plan", "show")
	assert.ErrorIs(t, err, service.ErrNoPlan)
}

func TestPlanCmd_DeleteDeclined(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "plan", "create", "Keep")
	require.NoError(t, err)
	app.IsInteractive = func() bool { return true }
	app.Confirm = func(string) (bool, error) { return false, nil }

	out, err := executeCmd(t, app, "plan", "delete", "Keep")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	_, err = app.Plans.GetByName(context.Background(), "Keep")
	assert.NoError(t, err)
}

func TestPlanCmd_SettingsRecomputesWorkingDays(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", "periods", writeTemp(t, "periods.csv", periodsCSV))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "plan", "settings", "--company-holiday", "2025-01-13", "--daily-hours", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-01-13")

	p, err := app.Plans.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8.0, p.Settings.DefaultDailyHours)
	assert.Equal(t, 9, p.Periods[0].WorkingDays)
	assert.Equal(t, 10, p.Periods[1].WorkingDays)

	out, err = executeCmd(t, app, "plan", "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily hours:      8")
}

func TestPlanCmd_SettingsRejectsBadDate(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "plan", "create", "Q1")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "plan", "settings", "--company-holiday", "2025/01/13")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid company holiday")
}

// --- stage / staging ---

func TestStagingFlow_StageReviewApply(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "stage", "periods", writeTemp(t, "periods.csv", periodsCSV))
	require.NoError(t, err)
	assert.Contains(t, out, "Staged 2 period(s) into global")

	out, err = executeCmd(t, app, "stage", "workload", writeTemp(t, "workload.csv", workloadCSV))
	require.NoError(t, err)
	assert.Contains(t, out, "Staged 2 work log(s) into global")

	out, err = executeCmd(t, app, "staging", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "global")

	out, err = executeCmd(t, app, "staging", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "2 periods, 1 member, 2 work logs")
	assert.Contains(t, out, "Design")

	out, err = executeCmd(t, app, "staging", "apply")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2 added")
	assert.Contains(t, out, "Applied to "+domain.DefaultPlanName)

	out, err = executeCmd(t, app, "staging", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing staged.")

	p, err := app.Plans.Active(context.Background())
	require.NoError(t, err)
	assert.Len(t, p.Periods, 2)
	assert.Len(t, p.WorkLogs, 2)
}

func TestStagingCmd_ApplyDeclinedKeepsBucket(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "stage", "periods", writeTemp(t, "periods.csv", periodsCSV))
	require.NoError(t, err)

	var asked string
	app.IsInteractive = func() bool { return true }
	app.Confirm = func(title string) (bool, error) {
		asked = title
		return false, nil
	}

	out, err := executeCmd(t, app, "staging", "apply")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled. The staged import was kept.")
	assert.Contains(t, asked, domain.DefaultPlanName)

	payload, err := app.Staging.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, payload.Periods, 2)
}

func TestStagingCmd_ApplyYesSkipsPrompt(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "stage", "periods", "--plan", "Q2", writeTemp(t, "periods.csv", periodsCSV))
	require.NoError(t, err)

	app.IsInteractive = func() bool { return true }
	app.Confirm = func(string) (bool, error) {
		t.Fatal("prompt shown despite --yes")
		return false, nil
	}

	out, err := executeCmd(t, app, "staging", "apply", "--plan", "Q2", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied to Q2")
}

func TestStagingCmd_ApplyNothingStaged(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "staging", "apply")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing staged for global.")
}

func TestStageCmd_ReadsStdin(t *testing.T) {
	app := testApp(t)

	out, err := executeCmdWithInput(t, app, periodsCSV, "stage", "periods", "-", "--plan", "Q1")
	require.NoError(t, err)
	assert.Contains(t, out, "plan:Q1")

	payload, err := app.Staging.Load(context.Background(), "Q1")
	require.NoError(t, err)
	assert.Len(t, payload.Periods, 2)
}

func TestStageCmd_WorkloadNeedsPeriods(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "stage", "workload", writeTemp(t, "w.csv", workloadCSV))
	assert.ErrorIs(t, err, service.ErrMissingPrerequisite)
}

func TestStageCmd_MissingFile(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "stage", "periods", filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestStagingCmd_Clear(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "stage", "periods", writeTemp(t, "p.csv", periodsCSV))
	require.NoError(t, err)
	_, err = executeCmd(t, app, "stage", "periods", "--plan", "Q2", writeTemp(t, "p.csv", periodsCSV))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "staging", "clear", "plan", "--plan", "Q2")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared staging: plan:Q2")

	entries, err := app.Staging.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Key.IsGlobal())

	_, err = executeCmd(t, app, "staging", "clear", "everything")
	assert.Error(t, err)

	_, err = executeCmd(t, app, "staging", "clear", "all")
	require.NoError(t, err)
	entries, err = app.Staging.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStagingCmd_Preview(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "stage", "periods", "--plan", "Later", writeTemp(t, "p.csv", periodsCSV))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "staging", "preview", "--plan", "Later")
	require.NoError(t, err)
	assert.Contains(t, out, "Merge into Later")
	assert.Contains(t, out, "2 added")

	_, err = app.Plans.GetByName(context.Background(), "Later")
	assert.Error(t, err, "preview creates nothing")
}

// --- import / export ---

func TestImportCmd_DirectAndExport(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "import", "periods", writeTemp(t, "periods.csv", periodsCSV))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported into "+domain.DefaultPlanName)

	_, err = executeCmd(t, app, "import", "workload", writeTemp(t, "w.csv", workloadCSV))
	require.NoError(t, err)

	out, err = executeCmd(t, app, "export", "summary")
	require.NoError(t, err)
	assert.Equal(t, "作業分類,メンバー名,S1,S2\nProject,Bob,4,0\nFeature,Bob,0,2.5\n", out)

	out, err = executeCmd(t, app, "export", "periods")
	require.NoError(t, err)
	assert.Equal(t, periodsCSV, out)

	path := filepath.Join(t.TempDir(), "leaves.csv")
	_, err = executeCmd(t, app, "export", "leaves", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "file exports carry a BOM")
	assert.Contains(t, string(data), "休み,Bob,0,0")

	xlsx := filepath.Join(t.TempDir(), "plan.xlsx")
	_, err = executeCmd(t, app, "export", "xlsx", "-o", xlsx)
	require.NoError(t, err)
	data, err = os.ReadFile(xlsx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestImportCmd_ReimportReplacesHours(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", "periods", writeTemp(t, "periods.csv", periodsCSV))
	require.NoError(t, err)
	_, err = executeCmd(t, app, "import", "workload", writeTemp(t, "w.csv", workloadCSV))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "import", "workload", writeTemp(t, "w2.csv", "t,p,k,m,S1,S2\nproject,Alpha,Design,Bob,6,0\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "replaced")

	p, err := app.Plans.Active(context.Background())
	require.NoError(t, err)
	bob, ok := p.MemberByName("Bob")
	require.True(t, ok)
	assert.Equal(t, 6.0, p.HoursFor(bob.ID, p.Periods[0].ID, domain.WorkProject))
}

func TestExportCmd_XLSXNeedsOutput(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "plan", "create", "Q1")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "export", "xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-o FILE")
}

func TestExportCmd_NoPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.xlsx")
	_, err := executeCmd(t, testApp(t), "export", "xlsx", "-o", path)
	assert.ErrorIs(t, err, service.ErrNoPlan)
	assert.NoFileExists(t, path)
}

// --- store ---

func TestStoreCmd_DumpLoad(t *testing.T) {
	src := testApp(t)
	_, err := executeCmd(t, src, "import", "periods", writeTemp(t, "periods.csv", periodsCSV))
	require.NoError(t, err)
	_, err = executeCmd(t, src, "import", "workload", writeTemp(t, "w.csv", workloadCSV))
	require.NoError(t, err)
	_, err = executeCmd(t, src, "stage", "periods", "--plan", "Next", writeTemp(t, "p.csv", periodsCSV))
	require.NoError(t, err)

	dump := filepath.Join(t.TempDir(), "store.json")
	_, err = executeCmd(t, src, "store", "dump", "-o", dump)
	require.NoError(t, err)

	dst := testApp(t)
	out, err := executeCmd(t, dst, "store", "load", dump, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 1 plan(s)")

	p, err := dst.Plans.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPlanName, p.Name)
	assert.Len(t, p.WorkLogs, 2)

	payload, err := dst.Staging.Load(context.Background(), "Next")
	require.NoError(t, err)
	assert.Len(t, payload.Periods, 2)
}

func TestStoreCmd_LoadRejectsBadJSON(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "store", "load", writeTemp(t, "bad.json", "{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}
