package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/testfixtures"
)

func executeCmd(t *testing.T, h *testfixtures.SQLiteHarness, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(Env{App: h.App})
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestStaffAddAndList(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)

	out, err := executeCmd(t, h, "", "staff", "add", "--first", "Anna", "--last", "Schmidt", "--role", "Erzieherin")
	require.NoError(t, err)
	assert.Contains(t, out, "Anna Schmidt angelegt (ID 1)")

	_, err = executeCmd(t, h, "", "staff", "add", "--first", "Ben", "--last", "Albers", "--role", "Praktikant", "--trainee")
	require.NoError(t, err)

	out, err = executeCmd(t, h, "", "staff", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Funktion")
	assert.Contains(t, lines[2], "Anna Schmidt")
	assert.Contains(t, lines[3], "Ben Albers")
	assert.Contains(t, lines[3], "ja")
}

func TestStaffAddRejectsDuplicate(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	h.SeedStaff(t, testfixtures.NewStaffFixture(testfixtures.WithStaffName("Anna", "Schmidt")))

	_, err := executeCmd(t, h, "", "staff", "add", "--first", "Anna", "--last", "Schmidt", "--role", "Erzieherin")
	assert.ErrorIs(t, err, application.ErrAlreadyExists)
}

func TestEntryLifecycleAndWeekGrid(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	staff := h.SeedStaff(t, testfixtures.NewStaffFixture(testfixtures.WithStaffName("Anna", "Schmidt")))
	id := strconv.FormatInt(staff.ID, 10)

	out, err := executeCmd(t, h, "", "entry", "add", "--week", "2024-W03", "--staff", id, "--day", "Dienstag", "--start", "07:30", "--end", "15:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Anna Schmidt, Dienstag 16.01.2024, 07:30–15:00")

	entries, err := h.App.Schedule.ListEntries(context.Background(), testfixtures.ReferenceWeek())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entryID := entries[0].ID

	out, err = executeCmd(t, h, "", "entry", "update", entryID, "--status", "krank")
	require.NoError(t, err)
	assert.Contains(t, out, "KRANK")

	out, err = executeCmd(t, h, "", "week", "--week", "2024-W03")
	require.NoError(t, err)
	assert.Contains(t, out, "Dienstplan KW 3/2024 (15.01.2024 bis 19.01.2024)")
	assert.Contains(t, out, "Di 16.01.")
	assert.Contains(t, out, "KRANK")
	assert.Contains(t, out, "Summe")

	_, err = executeCmd(t, h, "", "entry", "delete", entryID)
	require.NoError(t, err)
	_, err = executeCmd(t, h, "", "entry", "delete", entryID)
	assert.ErrorIs(t, err, application.ErrNotFound)
}

func TestEntryAddReportsValidation(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	h.SeedStaff(t, testfixtures.NewStaffFixture())

	_, err := executeCmd(t, h, "", "entry", "add", "--week", "2024-W03", "--staff", "1", "--day", "1", "--start", "16:00", "--end", "08:00")
	var vErr *application.ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = executeCmd(t, h, "", "entry", "add", "--week", "2024-W03", "--staff", "1", "--day", "Funday")
	assert.ErrorIs(t, err, calendar.ErrInvalidDay)
}

func TestWeekDefaultsToCurrentWeekAndShifts(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)

	out, err := executeCmd(t, h, "", "week")
	require.NoError(t, err)
	assert.Contains(t, out, "KW 3/2024")
	assert.Contains(t, out, "Keine Einträge.")

	out, err = executeCmd(t, h, "", "week", "--next", "2", "--prev", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "KW 4/2024")
}

func TestTotalsAndWorking(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	anna := h.SeedStaff(t, testfixtures.NewStaffFixture(testfixtures.WithStaffName("Anna", "Schmidt")))
	ctx := context.Background()
	_, err := h.App.Schedule.CreateEntry(ctx, testfixtures.NewEntryFixture(anna).CreateParams())
	require.NoError(t, err)

	out, err := executeCmd(t, h, "", "totals", "--week", "2024-W03")
	require.NoError(t, err)
	assert.Contains(t, out, "Montag")
	assert.Contains(t, out, "7:30")
	assert.Contains(t, out, "Normal 1")

	out, err = executeCmd(t, h, "", "working", "--date", "2024-01-15", "--time", "16:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Anna Schmidt")

	out, err = executeCmd(t, h, "", "working", "--date", "2024-01-15", "--time", "16:01")
	require.NoError(t, err)
	assert.Contains(t, out, "Niemand.")

	out, err = executeCmd(t, h, "", "working", "--date", "2024-01-15", "--time", "06:00", "--until", "08:30")
	require.NoError(t, err)
	assert.Contains(t, out, "zwischen 06:00 und 08:30")
	assert.Contains(t, out, "Anna Schmidt")

	_, err = executeCmd(t, h, "", "working", "--date", "2024-01-15", "--time", "09:00", "--until", "08:00")
	var vErr *application.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestImportFromStdin(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	h.SeedStaff(t, testfixtures.NewStaffFixture(testfixtures.WithStaffName("Anna", "Schmidt")))

	doc := "year: 2024\nweek: 3\nentries:\n  - staff: Anna Schmidt\n    day: Fr\n    status: URLAUB\n"
	out, err := executeCmd(t, h, doc, "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-W03: 1 Einträge angelegt, 0 fehlgeschlagen")

	bad := "year: 2024\nweek: 3\nentries:\n  - staff: Niemand\n    day: Mo\n"
	out, err = executeCmd(t, h, bad, "import", "-")
	require.Error(t, err)
	assert.Contains(t, out, "Zeile 1 (Niemand)")
}

func TestExportWritesWorkbook(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	path := filepath.Join(t.TempDir(), "plan.xlsx")

	out, err := executeCmd(t, h, "", "export", "--week", "2024-W03", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestProvisionAndMigrate(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)

	out, err := executeCmd(t, h, "", "provision")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-W03")
	assert.Contains(t, out, "created")

	out, err = executeCmd(t, h, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema-Version: 001")
}
