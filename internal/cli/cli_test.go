package cli

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `type, client, tx, amount
deposit, 1, 1, 1.0
deposit, 2, 2, 2.0
deposit, 1, 3, 2.0
withdrawal, 1, 4, 1.5
withdrawal, 2, 5, 3.0
dispute, 2, 2,
chargeback, 2, 2,
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunCSVReport(t *testing.T) {
	input := writeFile(t, "transactions.csv", sampleLog)

	out, _, err := execute(t, "run", input, "--log-level", "error")
	require.NoError(t, err)

	want := "client,available,held,total,locked\n" +
		"1,1.5000,0.0000,1.5000,false\n" +
		"2,0.0000,0.0000,0.0000,true\n"
	assert.Equal(t, want, out)
}

func TestRunMalformedInputReportsNothing(t *testing.T) {
	input := writeFile(t, "transactions.csv", "type,client,tx,amount\ndeposit,1,1,1.0\nteleport,1,2,1.0\n")

	out, _, err := execute(t, "run", input, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation type")
	assert.Empty(t, out)
}

func TestRunClientMismatchFlag(t *testing.T) {
	input := writeFile(t, "transactions.csv", "type,client,tx,amount\ndeposit,1,1,5\ndispute,2,1,\n")

	out, _, err := execute(t, "run", input, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "2,0.0000,0.0000,0.0000,false")

	out, _, err = execute(t, "run", input, "--log-level", "error", "--allow-client-mismatch")
	require.NoError(t, err)
	assert.Contains(t, out, "2,-5.0000,5.0000,0.0000,false")
}

func TestRunWithConfigFile(t *testing.T) {
	input := writeFile(t, "transactions.csv", "type,client,tx,amount\ndeposit,1,1,5\ndispute,2,1,\n")
	cfgPath := writeFile(t, "txengine.yaml", "log_level: error\nengine:\n  allow_client_mismatch: true\n")

	out, _, err := execute(t, "run", "--config", cfgPath, input)
	require.NoError(t, err)
	assert.Contains(t, out, "2,-5.0000,5.0000,0.0000,false")
}

func TestRunFlagOverridesInvalidConfigFile(t *testing.T) {
	input := writeFile(t, "transactions.csv", "type,client,tx,amount\ndeposit,1,1,5\n")
	cfgPath := writeFile(t, "txengine.yaml", "log_level: loud\n")

	_, _, err := execute(t, "run", "--config", cfgPath, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")

	out, _, err := execute(t, "run", "--config", cfgPath, "--log-level", "error", input)
	require.NoError(t, err)
	assert.Contains(t, out, "1,5.0000,0.0000,5.0000,false")
}

func TestJournalMissingDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "typo.sqlite")

	_, _, err := execute(t, "journal", "runs", "--db", db)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, _, err = execute(t, "journal", "accounts", "01J0Z8M7Q3X5V2R4T6Y8A0C2E4", "--db", db)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, statErr := os.Stat(db)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}

func TestRunSQLiteAndJournal(t *testing.T) {
	input := writeFile(t, "transactions.csv", sampleLog)
	db := filepath.Join(t.TempDir(), "runs.sqlite")

	out, errOut, err := execute(t, "run", input, "--log-level", "error", "--report", "sqlite", "--db", db)
	require.NoError(t, err)
	assert.Empty(t, out)

	m := regexp.MustCompile(`run ([0-9A-Z]{26})`).FindStringSubmatch(errOut)
	require.Len(t, m, 2, "stderr: %s", errOut)
	runID := m[1]

	out, _, err = execute(t, "journal", "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, input)

	out, _, err = execute(t, "journal", "accounts", runID, "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1,1.5000,0.0000,1.5000,false", lines[1])
	assert.Equal(t, "2,0.0000,0.0000,0.0000,true", lines[2])

	_, _, err = execute(t, "journal", "accounts", "nope", "--db", db)
	assert.Error(t, err)
}

func TestRunMissingFile(t *testing.T) {
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.csv"), "--log-level", "error")
	assert.Error(t, err)
}

func TestRunRequiresInput(t *testing.T) {
	_, _, err := execute(t, "run")
	assert.Error(t, err)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txengine.yaml")

	out, _, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, _, err = execute(t, "config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Report: csv")

	bad := writeFile(t, "bad.yaml", "report:\n  type: xml\n")
	_, _, err = execute(t, "config", "validate", bad)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "txengine version "+version+"\n", out)
}
