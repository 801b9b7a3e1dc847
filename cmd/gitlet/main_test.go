package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systemshift/gitlet/internal/config"
	"github.com/systemshift/gitlet/internal/dag"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITLET_AUTHOR_NAME", "")
	t.Setenv("GITLET_AUTHOR_EMAIL", "")
	t.Setenv("GITLET_VERBOSE", "")
	return t.TempDir()
}

func gitlet(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	// The position of "--" is kept by the flag set across executions.
	checkoutCmd.ResetFlags()
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"-C", dir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestCLIAddCommitLog(t *testing.T) {
	dir := setupCLI(t)

	_, err := gitlet(t, dir, "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, dag.RepoDirName, "config"))

	_, err = gitlet(t, dir, "init")
	assert.ErrorIs(t, err, dag.ErrAlreadyExists)

	writeFile(t, dir, "a.txt", "hello")
	_, err = gitlet(t, dir, "add", "a.txt")
	require.NoError(t, err)
	_, err = gitlet(t, dir, "commit", "first")
	require.NoError(t, err)

	out, err := gitlet(t, dir, "log")
	require.NoError(t, err)
	assert.Contains(t, out, "===\nCommit ")
	assert.Contains(t, out, "\nfirst\n\n")
	assert.Contains(t, out, "\ninitial commit\n\n")

	out, err = gitlet(t, dir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Branches ===\n*master\n")

	out, err = gitlet(t, dir, "find", "first")
	require.NoError(t, err)
	assert.Len(t, out, dag.IDLength+1)

	_, err = gitlet(t, dir, "commit", "again")
	assert.ErrorIs(t, err, dag.ErrNothingToCommit)
}

func TestCLICheckoutForms(t *testing.T) {
	dir := setupCLI(t)
	_, err := gitlet(t, dir, "init")
	require.NoError(t, err)

	writeFile(t, dir, "a.txt", "v1")
	_, err = gitlet(t, dir, "add", "a.txt")
	require.NoError(t, err)
	_, err = gitlet(t, dir, "commit", "v1")
	require.NoError(t, err)

	writeFile(t, dir, "a.txt", "scribble")
	_, err = gitlet(t, dir, "checkout", "--", "a.txt")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	_, err = gitlet(t, dir, "checkout", "master")
	assert.ErrorIs(t, err, dag.ErrNoNeedToCheckout)

	_, err = gitlet(t, dir, "checkout", "0000000", "--", "a.txt")
	assert.ErrorIs(t, err, dag.ErrNoSuchCommit)

	_, err = gitlet(t, dir, "checkout", "a", "b", "c")
	assert.ErrorIs(t, err, errIncorrectOperands)
}

func TestCLIMergeFastForward(t *testing.T) {
	dir := setupCLI(t)
	_, err := gitlet(t, dir, "init")
	require.NoError(t, err)

	_, err = gitlet(t, dir, "branch", "feature")
	require.NoError(t, err)
	_, err = gitlet(t, dir, "checkout", "feature")
	require.NoError(t, err)
	writeFile(t, dir, "b.txt", "feature work")
	_, err = gitlet(t, dir, "add", "b.txt")
	require.NoError(t, err)
	_, err = gitlet(t, dir, "commit", "feature work")
	require.NoError(t, err)
	_, err = gitlet(t, dir, "checkout", "master")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "b.txt"))

	out, err := gitlet(t, dir, "merge", "feature")
	require.NoError(t, err)
	assert.Equal(t, "Current branch fast-forwarded.\n", out)
	assert.FileExists(t, filepath.Join(dir, "b.txt"))

	out, err = gitlet(t, dir, "merge", "feature")
	require.NoError(t, err)
	assert.Equal(t, "Given branch is an ancestor of the current branch.\n", out)
}

func TestCLIUsageErrors(t *testing.T) {
	dir := setupCLI(t)

	_, err := gitlet(t, dir)
	assert.ErrorIs(t, err, errNoCommand)

	_, err = gitlet(t, dir, "frobnicate")
	assert.ErrorIs(t, err, errUnknownCommand)

	_, err = gitlet(t, dir, "status")
	assert.ErrorIs(t, err, dag.ErrNotInitialized)

	_, err = gitlet(t, dir, "init", "extra")
	assert.ErrorIs(t, err, errIncorrectOperands)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(dag.ErrNoSuchBranch))
	assert.Equal(t, 0, exitCode(errIncorrectOperands))
	assert.Equal(t, 0, exitCode(fmt.Errorf("%w: user.name", config.ErrKeyNotFound)))
	assert.Equal(t, 1, exitCode(errors.New("disk on fire")))
}
