package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COMPLETION_PROVIDER", "canned")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	out, err := run(t, "", "classify", "omg yes!! coffee sounds perfect", "--user", "wanna grab coffee?", "--interest", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "DATE_SECURED")
	assert.Contains(t, out, "agreement")

	out, err = run(t, "", "classify", "you're sweet but let's just be friends")
	require.NoError(t, err)
	assert.Contains(t, out, "FRIENDZONED")
}

func TestScoreCommand(t *testing.T) {
	out, err := run(t, "", "score", "--words", "8", "--messages", "2", "--elapsed", "20s", "--interest", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "RIZZ INDEX 100")
	assert.Contains(t, out, "LEGENDARY RIZZ")

	_, err = run(t, "", "score", "--outcome", "ghosted")
	assert.Error(t, err)
}

func TestExpiredCommand(t *testing.T) {
	out, err := run(t, "", "expired", "--started", "2026-02-14T19:00:00Z", "--now", "2026-02-14T19:04:59Z")
	require.NoError(t, err)
	assert.Contains(t, out, "false")
	assert.Contains(t, out, "1s")

	out, err = run(t, "", "expired", "--started", "2026-02-14T19:00:00Z", "--now", "2026-02-14T19:05:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "true")

	_, err = run(t, "", "expired", "--started", "yesterday")
	assert.Error(t, err)
}

func TestPersonaCommand(t *testing.T) {
	out, err := run(t, "", "persona", "--seed", "42", "--gender", "Man", "--orientation", "Straight")
	require.NoError(t, err)
	assert.Contains(t, out, "interests")

	_, err = run(t, "", "persona", "--name", "J")
	assert.Error(t, err)
}

func TestPlayCommandWithCannedProvider(t *testing.T) {
	out, err := run(t, "hey there\n\n/restart\n/quit\n", "play", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "interest ")
	assert.GreaterOrEqual(t, strings.Count(out, "personality"), 2)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rizzctl v"+version)
}
