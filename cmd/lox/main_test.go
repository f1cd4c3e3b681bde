package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shadlock0133/lox/pkg/driver"
)

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunScript(t *testing.T) {
	path := writeScript(t, `print "hello, " + "world";`)
	stdout, stderr, err := execute(t, path)
	require.NoError(t, err)
	assert.Equal(t, "hello, world\n", stdout)
	assert.Empty(t, stderr)
}

func TestRunScriptStaticError(t *testing.T) {
	path := writeScript(t, "print 1")
	_, stderr, err := execute(t, path)
	require.Error(t, err)

	var exit exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, driver.ExitStatic, exit.code)
	assert.Contains(t, stderr, "Parse Error at 'end': Expect ';' after value.")
}

func TestRunScriptRuntimeError(t *testing.T) {
	path := writeScript(t, "print 1;\nprint missing;")
	stdout, stderr, err := execute(t, path)
	require.Error(t, err)

	var exit exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, driver.ExitRuntime, exit.code)
	assert.Equal(t, "1\n", stdout, "output before the failure is kept")
	assert.Contains(t, stderr, "Undefined variable 'missing'.")
}

func TestRunMissingFile(t *testing.T) {
	_, _, err := execute(t, filepath.Join(t.TempDir(), "nope.lox"))
	require.Error(t, err)

	var exit exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, driver.ExitUsage, exit.code)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lox "+version+"\n", stdout)
}

func TestTokensCommand(t *testing.T) {
	path := writeScript(t, "var a = 1; // note\n")
	stdout, _, err := execute(t, "tokens", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Var")
	assert.Contains(t, stdout, "Identifier")
	assert.Contains(t, stdout, "Number")
	assert.Contains(t, stdout, "Comment")
	assert.Contains(t, stdout, "Eof")
}

func TestAstCommand(t *testing.T) {
	path := writeScript(t, "print 1 + 2 * 3;")
	stdout, _, err := execute(t, "ast", path)
	require.NoError(t, err)
	assert.Equal(t, "(print (+ 1 (* 2 3)))\n", stdout)
}

func TestTestCommandRunsSuite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "ok.lox"),
		[]byte("print 1; // expect: 1\n"),
		0o644,
	))
	_, stderr, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "test ok.lox ... ")
	assert.Contains(t, stderr, "1 passed, 0 failed")
}

func TestTestCommandFailureExit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "bad.lox"),
		[]byte("print 1; // expect: 2\n"),
		0o644,
	))
	_, stderr, err := execute(t, "test", dir)
	require.Error(t, err)

	var exit exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.code)
	assert.Contains(t, stderr, "0 passed, 1 failed")
}

func TestUnknownFlag(t *testing.T) {
	_, _, err := execute(t, "--bogus")
	require.Error(t, err)
	var exit exitError
	assert.False(t, errors.As(err, &exit), "usage errors are cobra's, not ours")
}
