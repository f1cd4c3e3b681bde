// Package driver runs source through the whole front end and hands the
// result to an interpreter. It also hosts the expectation-comment test
// harness used by the lox test command.
package driver

import (
	"errors"
	"io"
	"os"

	"github.com/Shadlock0133/lox/pkg/ast"
	"github.com/Shadlock0133/lox/pkg/interpreter"
	"github.com/Shadlock0133/lox/pkg/parser"
	"github.com/Shadlock0133/lox/pkg/resolver"
	"github.com/Shadlock0133/lox/pkg/scanner"
	"github.com/Shadlock0133/lox/pkg/token"
)

// Exit codes follow the BSD sysexits convention: 64 for bad usage, 65 for
// errors in the source text, 70 for failures while the program runs.
const (
	ExitUsage   = 64
	ExitStatic  = 65
	ExitRuntime = 70
)

// Program is a fully analyzed source file, ready to execute. Tokens keeps
// the complete stream including comments and whitespace so the harness can
// mine expectation comments out of it.
type Program struct {
	Statements []ast.Statement
	Bindings   resolver.Bindings
	Tokens     []token.Token
}

// Load scans, parses, and resolves source. Any error it returns is a
// *token.Error from one of the static phases.
func Load(source string) (*Program, error) {
	tokens, err := scanner.ScanTokens(source)
	if err != nil {
		return nil, err
	}

	filtered := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if !tok.CanSkip() {
			filtered = append(filtered, tok)
		}
	}

	statements, err := parser.New(filtered).Parse()
	if err != nil {
		return nil, err
	}

	bindings, err := resolver.New().Resolve(statements)
	if err != nil {
		return nil, err
	}

	return &Program{Statements: statements, Bindings: bindings, Tokens: tokens}, nil
}

// LoadFile reads path and loads its contents.
func LoadFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(string(source))
}

// RunSource loads and executes source in one shot, writing program output
// to stdout.
func RunSource(source string, stdout io.Writer) error {
	program, err := Load(source)
	if err != nil {
		return err
	}
	interp := interpreter.New(stdout)
	interp.BindLocals(program.Bindings)
	return interp.Interpret(program.Statements)
}

// ExitCode maps an error from Load or Interpret to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var diag *token.Error
	if errors.As(err, &diag) && diag.Kind == token.KindRuntime {
		return ExitRuntime
	}
	return ExitStatic
}
