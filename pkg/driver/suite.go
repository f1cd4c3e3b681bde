package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Shadlock0133/lox/pkg/interpreter"
	"github.com/Shadlock0133/lox/pkg/parser"
	"github.com/Shadlock0133/lox/pkg/resolver"
	"github.com/Shadlock0133/lox/pkg/scanner"
	"github.com/Shadlock0133/lox/pkg/token"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[m"

	okLabel     = ansiGreen + "ok" + ansiReset
	failedLabel = ansiRed + "FAILED" + ansiReset

	manifestFile = "suite.yml"
)

// Manifest configures a test suite directory. It lives in a suite.yml next
// to the scripts; a missing manifest means "run everything".
type Manifest struct {
	Name string   `yaml:"name"`
	Skip []string `yaml:"skip"`
}

// LoadManifest reads dir/suite.yml. Unknown keys are rejected so typos in
// the manifest fail loudly instead of silently running skipped suites.
func LoadManifest(dir string) (Manifest, error) {
	var manifest Manifest
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return manifest, nil
	}
	if err != nil {
		return manifest, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
		return manifest, fmt.Errorf("parsing %s: %w", manifestFile, err)
	}
	return manifest, nil
}

func (m Manifest) skips(name string) bool {
	for _, skip := range m.Skip {
		if skip == name {
			return true
		}
	}
	return false
}

// Suite runs every .lox script under Root against the expectations embedded
// in its comments, reporting one line per script to Out.
type Suite struct {
	Root     string
	Manifest Manifest
	Out      io.Writer
}

// NewSuite loads the manifest for root and builds a Suite reporting to out.
func NewSuite(root string, out io.Writer) (*Suite, error) {
	manifest, err := LoadManifest(root)
	if err != nil {
		return nil, err
	}
	return &Suite{Root: root, Manifest: manifest, Out: out}, nil
}

// Result counts suite outcomes.
type Result struct {
	Passed int
	Failed int
}

// Ok reports whether every script passed.
func (r Result) Ok() bool {
	return r.Failed == 0
}

// Run walks the suite and executes every script, returning the tally. The
// returned error covers harness failures only; script failures are counted
// in the Result.
func (s *Suite) Run() (Result, error) {
	var result Result
	start := time.Now()
	if err := s.runDir(s.Root, &result); err != nil {
		return result, err
	}
	label := okLabel
	if !result.Ok() {
		label = failedLabel
	}
	fmt.Fprintf(
		s.Out,
		"test result: %s. %d passed, %d failed; finished in %s\n",
		label, result.Passed, result.Failed, time.Since(start),
	)
	return result, nil
}

func (s *Suite) runDir(dir string, result *Result) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if !s.Manifest.skips(entry.Name()) {
				if err := s.runDir(path, result); err != nil {
					return err
				}
			}
			continue
		}
		if filepath.Ext(entry.Name()) != ".lox" {
			continue
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			rel = path
		}
		fmt.Fprintf(s.Out, "test %s ... ", rel)
		if failure := runScript(path); failure != nil {
			fmt.Fprintln(s.Out, failedLabel)
			fmt.Fprintf(s.Out, "    %s\n", failure)
			fmt.Fprintf(s.Out, "    in %s\n", path)
			result.Failed++
		} else {
			fmt.Fprintln(s.Out, okLabel)
			result.Passed++
		}
	}
	return nil
}

// expectation is what a script's comments promise: the exact stdout, plus
// optionally an error message the run must end with.
type expectation struct {
	output   string
	errEnd   string
	expected bool
}

// extractExpectations mines the trivia tokens of a scanned script. Two
// comment shapes declare an expected error: an explicit
// "// expect runtime error: ..." and a quoted diagnostic containing
// "Error at" (matched by suffix, so line numbers in the comment are
// ignored). Declaring both is a script bug.
func extractExpectations(tokens []token.Token) (expectation, error) {
	var exp expectation
	var direct, declared string
	var haveDirect, haveDeclared bool

	for _, tok := range tokens {
		if tok.Type != token.Comment {
			continue
		}
		text := strings.TrimPrefix(strings.TrimSpace(tok.Lexeme), "// ")
		if line, ok := strings.CutPrefix(text, "expect: "); ok {
			exp.output += line + "\n"
			continue
		}
		if msg, ok := strings.CutPrefix(text, "expect runtime error: "); ok && !haveDeclared {
			declared, haveDeclared = msg, true
			continue
		}
		if strings.Contains(tok.Lexeme, "Error at") && !haveDirect {
			if _, msg, ok := strings.Cut(strings.TrimSpace(tok.Lexeme), ": "); ok {
				direct, haveDirect = msg, true
			}
		}
	}

	if haveDirect && haveDeclared {
		return exp, errors.New("script declares both an error comment and an expect runtime error")
	}
	if haveDirect {
		exp.errEnd, exp.expected = direct, true
	} else if haveDeclared {
		exp.errEnd, exp.expected = declared, true
	}
	return exp, nil
}

// firstLineExpect handles scripts that fail to scan: the expectation can't
// come from the token stream, so only a leading comment on the first line
// counts. Used for scripts exercising lexical errors.
func firstLineExpect(source string) (string, bool) {
	first, ok, err := scanner.New(source).Next()
	if err != nil || !ok || first.Type != token.Comment {
		return "", false
	}
	if !strings.Contains(first.Lexeme, "Error") {
		return "", false
	}
	_, msg, found := strings.Cut(strings.TrimSpace(first.Lexeme), ": ")
	if !found {
		return "", false
	}
	return msg, true
}

// runScript executes one script and checks it against its expectations. A
// nil return means the script passed; otherwise the error describes the
// mismatch.
func runScript(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tokens, err := scanner.ScanTokens(string(source))
	if err != nil {
		expected, ok := firstLineExpect(string(source))
		if !ok {
			return fmt.Errorf("scan error: %s", err)
		}
		if strings.HasSuffix(err.Error(), expected) {
			return nil
		}
		return fmt.Errorf("expected scan error %q, got: %s", expected, err)
	}

	exp, err := extractExpectations(tokens)
	if err != nil {
		return err
	}

	filtered := tokens[:0]
	for _, tok := range tokens {
		if !tok.CanSkip() {
			filtered = append(filtered, tok)
		}
	}

	var output bytes.Buffer
	runErr := runTokens(filtered, &output)

	switch {
	case runErr == nil && !exp.expected:
		if output.String() != exp.output {
			return fmt.Errorf("expected output %q, got %q", exp.output, output.String())
		}
		return nil
	case runErr != nil && exp.expected:
		if strings.HasSuffix(runErr.Error(), exp.errEnd) {
			return nil
		}
		return fmt.Errorf("expected error %q, got: %s", exp.errEnd, runErr)
	case runErr != nil:
		return fmt.Errorf("unexpected error: %s", runErr)
	default:
		return fmt.Errorf("expected failure: %q", exp.errEnd)
	}
}

func runTokens(tokens []token.Token, stdout io.Writer) error {
	statements, err := parser.New(tokens).Parse()
	if err != nil {
		return err
	}
	bindings, err := resolver.New().Resolve(statements)
	if err != nil {
		return err
	}
	interp := interpreter.New(stdout)
	interp.BindLocals(bindings)
	return interp.Interpret(statements)
}
