package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness runs tracker command lines against a private config and database.
type harness struct {
	t      *testing.T
	config string
	dir    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	content := "store:\n  path: " + filepath.Join(dir, "tracker.db") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(config, []byte(content), 0o600))
	return &harness{t: t, config: config, dir: dir}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--config", h.config}, args...)
	err := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, "tracker %s", strings.Join(args, " "))
	return out
}

func TestCLI_AccountLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("signup", "alice", "--email", "alice@example.com", "--name", "Alice A", "--password", "pw")
	assert.Contains(t, out, "created user alice")

	_, err := h.run("", "whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)

	_, err = h.run("", "login", "alice", "--password", "wrong")
	assert.EqualError(t, err, "unknown user or wrong password")

	out, err = h.run("pw\n", "login", "alice@example.com", "--remember")
	require.NoError(t, err)
	assert.Contains(t, out, "welcome, Alice A (login #1)")

	out = h.mustRun("whoami")
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "light")

	h.mustRun("theme", "dark")
	assert.Contains(t, h.mustRun("whoami"), "dark")

	h.mustRun("logout")
	_, err = h.run("", "whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)

	assert.Contains(t, h.mustRun("--user", "alice", "whoami"), "Alice A")

	_, err = h.run("", "--user", "alice", "delete-account")
	assert.ErrorContains(t, err, "--yes")
	h.mustRun("--user", "alice", "delete-account", "--yes")

	_, err = h.run("", "--user", "alice", "whoami")
	assert.ErrorContains(t, err, `no user named "alice"`)
}

func TestCLI_TasksAndMilestones(t *testing.T) {
	h := newHarness(t)
	h.mustRun("signup", "bob", "--email", "bob@example.com", "--password", "pw")
	h.mustRun("login", "bob", "--password", "pw", "--remember")

	out := h.mustRun("task", "add", "Write report", "-p", "high", "--due", "2000-01-01", "-m", "Outline", "-m", "Draft")
	assert.Contains(t, out, "created task #1 with 2 milestone(s)")
	h.mustRun("task", "add", "Buy milk", "-d", "semi-skimmed")

	out = h.mustRun("task", "list")
	assert.Contains(t, out, "#1 Write report")
	assert.Contains(t, out, "overdue")
	assert.Contains(t, out, "#1 Outline")
	assert.Contains(t, out, "#2 Buy milk")

	h.mustRun("task", "done", "2")
	out = h.mustRun("task", "list", "--pending")
	assert.NotContains(t, out, "Buy milk")

	out = h.mustRun("task", "update", "1", "--title", "Write final report", "-m", "Review")
	assert.Contains(t, out, "Write final report")

	assert.Contains(t, h.mustRun("task", "search", "SKIMMED"), "Buy milk")
	assert.Contains(t, h.mustRun("task", "search", "nothing"), "no matches")

	out = h.mustRun("stats")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "1 overdue")

	h.mustRun("milestone", "add", "Loose end")
	out = h.mustRun("milestone", "list", "--unassigned")
	assert.Contains(t, out, "Loose end")
	assert.NotContains(t, out, "Outline")

	h.mustRun("milestone", "rm", "4")
	assert.Contains(t, h.mustRun("milestone", "list", "--unassigned"), "no milestones")

	h.mustRun("task", "rm", "1")
	assert.Contains(t, h.mustRun("milestone", "list"), "no milestones")

	_, err := h.run("", "task", "done", "1")
	assert.ErrorContains(t, err, "task #1")
	_, err = h.run("", "task", "done", "abc")
	assert.ErrorContains(t, err, `invalid task id "abc"`)
}

func TestCLI_TasksOfOtherUsersAreHidden(t *testing.T) {
	h := newHarness(t)
	h.mustRun("signup", "alice", "--email", "alice@example.com", "--password", "pw")
	h.mustRun("signup", "bob", "--email", "bob@example.com", "--password", "pw")
	h.mustRun("--user", "alice", "task", "add", "secret plan")

	_, err := h.run("", "--user", "bob", "task", "rm", "1")
	assert.ErrorContains(t, err, "task #1")

	assert.Contains(t, h.mustRun("--user", "alice", "task", "list"), "secret plan")
}

func TestCLI_ExportImportDoctor(t *testing.T) {
	h := newHarness(t)
	h.mustRun("signup", "carol", "--email", "carol@example.com", "--password", "pw")
	h.mustRun("--user", "carol", "task", "add", "Keep me", "-m", "Step")

	file := filepath.Join(h.dir, "carol.json")
	assert.Contains(t, h.mustRun("--user", "carol", "export", file), "exported 1 task(s) and 1 milestone(s)")

	h.mustRun("--user", "carol", "delete-account", "--yes")
	assert.Contains(t, h.mustRun("import", file), "imported carol")
	assert.Contains(t, h.mustRun("--user", "carol", "task", "list"), "Keep me")

	out := h.mustRun("doctor")
	assert.Contains(t, out, filepath.Join(h.dir, "tracker.db"))
	assert.Contains(t, out, "milestones")
	assert.Contains(t, out, "remembered session: none")
}
