package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/promenade/internal/simulate"
)

// #region helpers
// execute runs the root command with fresh flag values and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, logLevel, dbPath, noStore = "", "", "", false
	resume, remoteAddr = false, ""
	historyLast, historyJSON = 20, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeProgram(t *testing.T, dir, blob string) string {
	t.Helper()
	path := filepath.Join(dir, "example")
	require.NoError(t, os.WriteFile(path, []byte(blob), 0644))
	return path
}
// #endregion helpers

// #region run-tests
func TestRun_Positional(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "s1,x3/4,pe/b\n")

	out, err := execute(t, "run", "--no-store", "5", path, "1")
	require.NoError(t, err)
	assert.Equal(t, "Result = baedc\n", out)
}

func TestRun_ReportsCycle(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "s1,x3/4,pe/b")

	out, err := execute(t, "run", "--no-store", "5", path, "1000000000")
	require.NoError(t, err)
	assert.Equal(t, "cycle detected: start=1 length=4\nResult = abcde\n", out)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeProgram(t, dir, "s1,x3/4,pe/b")
	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte("s1,x3-4"), 0644))

	_, err := execute(t, "run", "--no-store", "five", good, "1")
	assert.Error(t, err)

	_, err = execute(t, "run", "--no-store", "5", bad, "1")
	assert.ErrorContains(t, err, "x3-4")

	_, err = execute(t, "run", "--no-store", "3", good, "1")
	assert.ErrorContains(t, err, "out of range")

	_, err = execute(t, "run", "--no-store", "5", filepath.Join(dir, "missing"), "1")
	assert.Error(t, err)

	_, err = execute(t, "run", "--no-store", "--resume", "5", good, "1")
	assert.Error(t, err)
}

func TestRun_StoreResumeHistoryRollback(t *testing.T) {
	dir := t.TempDir()
	path := writeProgram(t, dir, "s1,x3/4,pe/b")
	db := filepath.Join(dir, "promenade.db")

	out, err := execute(t, "run", "--db", db, "5", path, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Result = baedc")

	out, err = execute(t, "run", "--db", db, "--resume", "5", path, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Result = ceadb")

	out, err = execute(t, "history", "--db", db, "--json")
	require.NoError(t, err)
	var rows []historyRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "ceadb", rows[0].Lineup)
	assert.True(t, rows[0].Active)
	assert.Equal(t, rows[1].VersionID, rows[0].ParentID)
	assert.Equal(t, "cli", rows[0].Trigger)

	out, err = execute(t, "rollback", "--db", db, rows[1].VersionID)
	require.NoError(t, err)
	assert.Contains(t, out, "baedc")

	out, err = execute(t, "history", "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "*"), "rolled back version should be active: %q", lines[2])

	_, err = execute(t, "rollback", "--db", db, "nope")
	assert.Error(t, err)
}

func TestResume_CreatesInitialLineup(t *testing.T) {
	dir := t.TempDir()
	path := writeProgram(t, dir, "s1,x3/4,pe/b")
	db := filepath.Join(dir, "fresh.db")

	out, err := execute(t, "run", "--db", db, "--resume", "5", path, "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Result = ceadb")

	out, err = execute(t, "history", "--db", db, "--json")
	require.NoError(t, err)
	var rows []historyRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "abcde", rows[1].Lineup)
	assert.Equal(t, "", rows[1].Trigger)
}
// #endregion run-tests

// #region verify-tests
func TestVerify_Fixture(t *testing.T) {
	out, err := execute(t, "verify", filepath.Join("..", "..", "internal", "simulate", "testdata", "example.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Summary: 8 total, 8 match, 0 diverge")
}

func TestVerify_Drift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drift.json")
	body := `{"size": 5, "program": "s1,x3/4,pe/b", "cases": [{"rounds": 1, "expected": "abcde"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	out, err := execute(t, "verify", path)
	assert.True(t, errors.Is(err, errDrift))
	assert.Contains(t, out, "DIFF")
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	n := printComparison(&buf, []simulate.CaseResult{
		{Case: simulate.FixtureCase{Rounds: 1, Expected: "baedc"}, Match: true},
		{Case: simulate.FixtureCase{Rounds: 2, Expected: "abcde"}, Match: false},
	})
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "Summary: 2 total, 1 match, 1 diverge")
}
// #endregion verify-tests
