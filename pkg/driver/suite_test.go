package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shadlock0133/lox/pkg/scanner"
)

func TestLoadManifest(t *testing.T) {
	manifest, err := LoadManifest(filepath.Join("testdata", "suite"))
	require.NoError(t, err)
	assert.Equal(t, "lox", manifest.Name)
	assert.Equal(t, []string{"benchmark"}, manifest.Skip)
}

func TestLoadManifestMissingIsEmpty(t *testing.T) {
	manifest, err := LoadManifest(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, manifest.Name)
	assert.Empty(t, manifest.Skip)
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "suite.yml"),
		[]byte("name: x\nskpi: [benchmark]\n"),
		0o644,
	))
	_, err := LoadManifest(dir)
	require.Error(t, err)
}

func TestSuiteRunsTestdata(t *testing.T) {
	var report bytes.Buffer
	suite, err := NewSuite(filepath.Join("testdata", "suite"), &report)
	require.NoError(t, err)

	result, err := suite.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Failed, report.String())
	assert.Equal(t, 6, result.Passed, report.String())
	assert.True(t, result.Ok())

	out := report.String()
	assert.Contains(t, out, "test counter.lox ... ")
	assert.Contains(t, out, "test result: ")
	assert.NotContains(t, out, "benchmark", "skipped directories must not run")
}

func TestSuiteReportsFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "bad.lox"),
		[]byte("print 1; // expect: 2\n"),
		0o644,
	))

	var report bytes.Buffer
	suite, err := NewSuite(dir, &report)
	require.NoError(t, err)

	result, err := suite.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Passed)
	assert.False(t, result.Ok())
	assert.Contains(t, report.String(), "FAILED")
}

func TestExtractExpectations(t *testing.T) {
	tokens, err := scanner.ScanTokens(`print 1; // expect: 1
print 2; // expect: 2
`)
	require.NoError(t, err)
	exp, err := extractExpectations(tokens)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", exp.output)
	assert.False(t, exp.expected)
}

func TestExtractExpectationsErrorComment(t *testing.T) {
	tokens, err := scanner.ScanTokens(
		"print a; // [line 1:7] Runtime Error at 'a': Undefined variable 'a'.\n",
	)
	require.NoError(t, err)
	exp, err := extractExpectations(tokens)
	require.NoError(t, err)
	assert.True(t, exp.expected)
	assert.Equal(t, "Undefined variable 'a'.", exp.errEnd)
}

func TestExtractExpectationsDeclaredRuntimeError(t *testing.T) {
	tokens, err := scanner.ScanTokens(
		"// expect runtime error: Operands must be a numbers.\nprint \"a\" - \"b\";\n",
	)
	require.NoError(t, err)
	exp, err := extractExpectations(tokens)
	require.NoError(t, err)
	assert.True(t, exp.expected)
	assert.Equal(t, "Operands must be a numbers.", exp.errEnd)
}

func TestExtractExpectationsRejectsBothForms(t *testing.T) {
	tokens, err := scanner.ScanTokens(`// expect runtime error: boom
// also an Error at 'x': boom
print 1;
`)
	require.NoError(t, err)
	_, err = extractExpectations(tokens)
	require.Error(t, err)
}

func TestFirstLineExpect(t *testing.T) {
	msg, ok := firstLineExpect("// Scan Error: Unterminated string\n\"abc")
	require.True(t, ok)
	assert.Equal(t, "Unterminated string", msg)

	_, ok = firstLineExpect("print 1;")
	assert.False(t, ok)

	_, ok = firstLineExpect("// just a comment\n@")
	assert.False(t, ok)
}
