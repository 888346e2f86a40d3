package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/book"
	"github.com/cleared-dev/tally/internal/book/booktest"
	"github.com/cleared-dev/tally/internal/commands"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/money"
)

var april = []string{"--from", "2025-04-01", "--to", "2025-04-30"}

func runTally(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// sampleBook writes the sample book as a CSV book directory.
func sampleBook(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, booktest.Sample().Save(dir))
	require.NoError(t, config.Save(filepath.Join(dir, config.FileName), config.Default("Sample Co")))
	return dir
}

func TestInit_CreatesBook(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "books", "2025")
	out, err := runTally(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized tally book")

	data, err := os.ReadFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Test Biz")

	b, err := book.Load(dir, 0)
	require.NoError(t, err)
	assert.Len(t, b.Subjects, len(book.DefaultChart()))
	assert.NotEmpty(t, b.Categories)

	out, err = runTally(t, "check", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
}

func TestInit_Errors(t *testing.T) {
	_, err := runTally(t, "init", t.TempDir())
	assert.Error(t, err, "init without --name should fail")

	_, err = runTally(t, "init", t.TempDir(), "--name", "x", "--source", "mysql")
	assert.Error(t, err)

	dir := t.TempDir()
	_, err = runTally(t, "init", dir, "--name", "x")
	require.NoError(t, err)
	_, err = runTally(t, "init", dir, "--name", "x")
	assert.Error(t, err, "init refuses to overwrite an existing book")
}

func TestInit_SQLite(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "DB Biz", "--source", "sqlite")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, commands.DatabaseFile))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, book.SubjectsFile))
	assert.True(t, os.IsNotExist(err), "sqlite books keep no CSV files")

	out, err := runTally(t, "check", "-C", dir, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestNotABook(t *testing.T) {
	_, err := runTally(t, "trial", "-C", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a tally book")
}

func TestBalances(t *testing.T) {
	dir := sampleBook(t)
	out, err := runTally(t, append([]string{"balances", "-C", dir}, april...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "SUBJECT BALANCES 2025-04-01..2025-04-30")
	assert.Contains(t, out, "11800.00")
	assert.Contains(t, out, "[BALANCED]")
}

func TestTrial_JSONAndStrict(t *testing.T) {
	dir := sampleBook(t)
	out, err := runTally(t, append([]string{"trial", "-C", dir, "--json"}, april...)...)
	require.NoError(t, err)

	var res struct {
		IsBalanced bool        `json:"is_balanced"`
		DebitTotal money.Money `json:"debit_total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.IsBalanced)
	assert.Equal(t, "16800.00", res.DebitTotal.String())

	b := booktest.Sample()
	b.InitialBalances[2].OpeningBalance = money.MustParse("14000.00")
	require.NoError(t, b.Save(dir))

	out, err = runTally(t, append([]string{"trial", "-C", dir}, april...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "[UNBALANCED]")

	_, err = runTally(t, append([]string{"trial", "-C", dir, "--strict"}, april...)...)
	assert.Error(t, err)
}

func TestLedger(t *testing.T) {
	dir := sampleBook(t)
	out, err := runTally(t, append([]string{"ledger", "1002", "--aux", "icbc", "-C", dir}, april...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "记-2")
	assert.Contains(t, out, "记-3")
	assert.Contains(t, out, "11800.00")

	_, err = runTally(t, append([]string{"ledger", "1002", "--sort", "amount", "-C", dir}, april...)...)
	assert.Error(t, err)

	_, err = runTally(t, append([]string{"ledger", "9999", "-C", dir}, april...)...)
	assert.Error(t, err)
}

func TestFunds(t *testing.T) {
	dir := sampleBook(t)
	out, err := runTally(t, append([]string{"funds", "-C", dir}, april...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "uncategorized")
	assert.Contains(t, out, "4800.00")
}

func TestReconcile(t *testing.T) {
	dir := sampleBook(t)
	out, err := runTally(t, append([]string{"reconcile", "-C", dir, "--json"}, april...)...)
	require.NoError(t, err)

	var rows []struct {
		FundAccountID string      `json:"fund_account_id"`
		Diff          money.Money `json:"diff"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "cash", rows[0].FundAccountID)
	assert.Equal(t, "200.00", rows[0].Diff.String())
	assert.True(t, rows[1].Diff.IsZero())

	out, err = runTally(t, append([]string{"reconcile", "-C", dir, "--details", "cash"}, april...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "未生成凭证")
	assert.Contains(t, out, "j2")

	_, err = runTally(t, append([]string{"reconcile", "-C", dir, "--details", "nope"}, april...)...)
	assert.Error(t, err)
}

func TestCheck_ReportsProblems(t *testing.T) {
	dir := sampleBook(t)
	b := booktest.Sample()
	b.Journal[0].FundAccountID = "petty"
	require.NoError(t, b.Save(dir))

	out, err := runTally(t, "check", "-C", dir)
	require.Error(t, err)
	assert.Contains(t, out, string(book.RuleKnownFundAccount))
}

func TestDBImport(t *testing.T) {
	dbBook := t.TempDir()
	_, err := runTally(t, "init", dbBook, "--name", "DB Biz", "--source", "sqlite")
	require.NoError(t, err)

	csvBook := sampleBook(t)
	out, err := runTally(t, "db", "import", csvBook, "-C", dbBook)
	require.NoError(t, err)
	assert.Contains(t, out, "4 vouchers")

	out, err = runTally(t, append([]string{"reconcile", "-C", dbBook}, april...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "200.00")
}

func TestDBImport_CSVBookNeedsPath(t *testing.T) {
	dir := sampleBook(t)
	_, err := runTally(t, "db", "import", dir, "-C", dir)
	assert.Error(t, err)

	dbPath := filepath.Join(t.TempDir(), "copy.db")
	_, err = runTally(t, "db", "import", dir, "-C", dir, "--db", dbPath)
	require.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestInit_Git(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	out, err := runTally(t, "init", dir, "--name", "Git Biz", "--git", "--git-author", "Test Author <test@example.com>")
	require.NoError(t, err)
	assert.Contains(t, out, "Committed")

	log := exec.Command("git", "log", "--format=%s|%an", "-1")
	log.Dir = dir
	logOut, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(logOut), "init: Git Biz|Test Author")
}
