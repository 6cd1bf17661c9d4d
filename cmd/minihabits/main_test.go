package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/minihabits/internal/config"
	"github.com/jgoulah/minihabits/internal/stats"
	"github.com/jgoulah/minihabits/pkg/models"
)

// runCLI executes the root command against a throwaway store
func runCLI(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	cfgFile, dbPath = "", ""
	listDays, deleteYes, statsJSON, publishHabit, exportOutput = 5, false, false, "", ""
	initBackend, initForce = config.BackendSQLite, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", filepath.Join(dir, "habits.db"),
	}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// fixedNow is the wall clock every CLI test runs at
var fixedNow = time.Date(2024, time.March, 15, 23, 59, 30, 0, time.Local)

// useClock pins what today is for the commands run by a test
func useClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func TestCLIFlow(t *testing.T) {
	t.Setenv("MINIHABITS_LOG_LEVEL", "")
	useClock(t, fixedNow)
	dir := t.TempDir()

	out, err := runCLI(t, dir, "", "add", "Read", "a", "book")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Added Read a book")

	_, err = runCLI(t, dir, "", "add", "Run")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "", "toggle", "read a book")
	require.NoError(t, err)
	assert.Contains(t, out, "done on 2024-03-15 (Fri)")

	_, err = runCLI(t, dir, "", "toggle", "Read a book", "yesterday")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Read a book")
	assert.Contains(t, out, "Run")

	out, err = runCLI(t, dir, "", "stats", "Read a book", "--json")
	require.NoError(t, err)
	var s stats.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 2, s.HabitFormation.Progress)

	out, err = runCLI(t, dir, "", "stats", "Read a book")
	require.NoError(t, err)
	assert.Contains(t, out, "19 days to form habit")
	assert.Contains(t, out, "Run →")

	out, err = runCLI(t, dir, "", "grid", "Run")
	require.NoError(t, err)
	assert.Contains(t, out, "Sun")

	out, err = runCLI(t, dir, "", "rename", "Run", "Run", "5k")
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed Run to Run 5k")
}

func TestCLIToggleRejectsFutureAndBadDates(t *testing.T) {
	useClock(t, fixedNow)
	dir := t.TempDir()
	_, err := runCLI(t, dir, "", "add", "Read")
	require.NoError(t, err)

	_, err = runCLI(t, dir, "", "toggle", "Read", "2024-03-16")
	assert.ErrorContains(t, err, "future")

	_, err = runCLI(t, dir, "", "toggle", "Read", "last tuesday")
	assert.ErrorContains(t, err, "invalid date format")

	_, err = runCLI(t, dir, "", "toggle", "Swim")
	assert.ErrorContains(t, err, "not found")
}

func TestCLIDeleteConfirmation(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "", "add", "Read")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "n\n", "delete", "Read")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")

	out, err = runCLI(t, dir, "y\n", "delete", "Read")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Deleted Read")

	out, err = runCLI(t, dir, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No habits yet")
}

func TestCLIExport(t *testing.T) {
	useClock(t, fixedNow)
	dir := t.TempDir()
	_, err := runCLI(t, dir, "", "add", "Read")
	require.NoError(t, err)
	_, err = runCLI(t, dir, "", "toggle", "Read", "1d")
	require.NoError(t, err)

	path := filepath.Join(dir, "backup.json")
	out, err := runCLI(t, dir, "", "export", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 habits")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	list, skipped, err := models.DecodeDocument(data)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, list, 1)
	assert.True(t, list[0].Done("2024-03-14"))
}

func TestCLIListShowsLastSaved(t *testing.T) {
	useClock(t, fixedNow)
	dir := t.TempDir()

	out, err := runCLI(t, dir, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No habits yet")
	assert.NotContains(t, out, "Last saved")

	_, err = runCLI(t, dir, "", "add", "Read")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Last saved")
}

func TestCLIInit(t *testing.T) {
	useClock(t, fixedNow)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	out, err := runCLI(t, dir, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote "+cfgPath)

	c, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, c.GetBackend())
	assert.Equal(t, filepath.Join(dir, "habits.db"), c.GetStoragePath())

	_, err = runCLI(t, dir, "", "init", "--backend", "file")
	assert.ErrorContains(t, err, "already exists")

	_, err = runCLI(t, dir, "", "init", "--backend", "nosql", "--force")
	assert.ErrorContains(t, err, "unknown storage backend")

	_, err = runCLI(t, dir, "", "init", "--backend", "file", "--force")
	require.NoError(t, err)
	c, err = config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.BackendFile, c.GetBackend())

	_, err = runCLI(t, dir, "", "add", "Read")
	require.NoError(t, err)
	_, err = runCLI(t, dir, "", "toggle", "Read")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "habits.db"))
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "file backend stores under a directory")

	out, err = runCLI(t, dir, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Read")
	assert.Contains(t, out, "Last saved")
}

func TestCLIPublishRequiresDestination(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "", "publish")
	assert.ErrorContains(t, err, "enabled")
}

func TestParseDay(t *testing.T) {
	today := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	cases := map[string]string{
		"":           "2024-03-15",
		"today":      "2024-03-15",
		"Yesterday":  "2024-03-14",
		"0d":         "2024-03-15",
		"7d":         "2024-03-08",
		"2024-02-29": "2024-02-29",
	}
	for in, want := range cases {
		got, err := parseDay(in, today)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"d", "-3d", "3xd", "3 d", "7dd", "2024-02-30", "soon"} {
		_, err := parseDay(bad, today)
		assert.Error(t, err, bad)
	}
}
