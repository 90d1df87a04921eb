package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func summaryPlan() *domain.Plan {
	alice := testutil.NewTestMember("Alice")
	bob := testutil.NewTestMember("Bob")
	s1 := testutil.NewTestPeriod("S1")
	s2 := testutil.NewTestPeriod("S2", testutil.WithDates("2025-01-20", "2025-01-31"))
	return testutil.NewTestPlan("Q1",
		testutil.WithMembers(alice, bob),
		testutil.WithPeriods(s1, s2),
		testutil.WithWorkLogs(
			testutil.NewTestWorkLog(alice.ID, s1.ID, "A - x", 12),
			testutil.NewTestWorkLog(alice.ID, s1.ID, "A - y", 0.1),
			testutil.NewTestWorkLog(alice.ID, s1.ID, "A - z", 0.2),
			testutil.NewTestWorkLog(alice.ID, s2.ID, "F - x", 4, testutil.WithWorkType(domain.WorkFeature)),
			testutil.NewTestWorkLog(bob.ID, s2.ID, "休暇", 7.5, testutil.WithWorkType(domain.WorkLeave)),
		),
	)
}

func TestGenerateWorkloadSummaryCSV(t *testing.T) {
	got, err := GenerateWorkloadSummaryCSV(summaryPlan())
	require.NoError(t, err)

	want := strings.Join([]string{
		"作業分類,メンバー名,S1,S2",
		"Project,Alice,12.3,0",
		"Feature,Alice,0,4",
		"Project,Bob,0,0",
		"Feature,Bob,0,0",
	}, "\n") + "\n"
	assert.Equal(t, want, got)
}

func TestGenerateLeavesSummaryCSV(t *testing.T) {
	got, err := GenerateLeavesSummaryCSV(summaryPlan())
	require.NoError(t, err)

	want := "休み,メンバー名,S1,S2\n休み,Alice,0,0\n休み,Bob,0,7.5\n"
	assert.Equal(t, want, got)
}

func TestSummary_EmptyPlan(t *testing.T) {
	got, err := GenerateWorkloadSummaryCSV(testutil.NewTestPlan("Empty"))
	require.NoError(t, err)
	assert.Equal(t, "作業分類,メンバー名\n", got)
}

func TestSummary_QuotesNames(t *testing.T) {
	p := testutil.NewTestPlan("Q", testutil.WithMembers(testutil.NewTestMember("Doe, Jane")))
	got, err := GenerateLeavesSummaryCSV(p)
	require.NoError(t, err)
	assert.Contains(t, got, `休み,"Doe, Jane"`)
}

func TestWriteWithBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWithBOM(&buf, "a,b\n"))
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF, 'a', ',', 'b', '\n'}, buf.Bytes())
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, summaryPlan()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetWorkload, SheetLeaves, SheetPeriods}, f.GetSheetList())

	rows, err := f.GetRows(SheetWorkload)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"作業分類", "メンバー名", "S1", "S2"}, rows[0])
	assert.Equal(t, []string{"Project", "Alice", "12.3", "0"}, rows[1])

	rows, err = f.GetRows(SheetLeaves)
	require.NoError(t, err)
	assert.Equal(t, []string{"休み", "Bob", "0", "7.5"}, rows[2])

	rows, err = f.GetRows(SheetPeriods)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"S2", "2025-01-20", "2025-01-31", "10"}, rows[2])
}
