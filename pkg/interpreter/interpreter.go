// Package interpreter walks the resolved AST and evaluates it.
package interpreter

import (
	"fmt"
	"io"
	"time"

	"github.com/Shadlock0133/lox/pkg/ast"
	"github.com/Shadlock0133/lox/pkg/resolver"
	"github.com/Shadlock0133/lox/pkg/runtime"
	"github.com/Shadlock0133/lox/pkg/token"
)

// Interpreter drives evaluation. Print output goes to stdout, which tests
// and the expectation harness swap for a buffer.
type Interpreter struct {
	globals *runtime.Environment
	locals  resolver.Bindings
	stdout  io.Writer
	start   time.Time
}

func New(stdout io.Writer) *Interpreter {
	i := &Interpreter{
		globals: runtime.NewEnvironment(nil),
		locals:  make(resolver.Bindings),
		stdout:  stdout,
		start:   time.Now(),
	}
	i.registerNatives()
	return i
}

// Globals returns the interpreter's global environment, mainly so callers
// can register extra natives.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// BindLocals merges resolver output into the interpreter. A REPL calls this
// once per line; resolving is cumulative because AST nodes are unique.
func (i *Interpreter) BindLocals(bindings resolver.Bindings) {
	for expr, depth := range bindings {
		i.locals[expr] = depth
	}
}

// Interpret executes statements against the global environment.
func (i *Interpreter) Interpret(statements []ast.Statement) error {
	for _, stmt := range statements {
		if err := i.executeStatement(stmt, i.globals); err != nil {
			switch err.(type) {
			case returnSignal:
				return runtimeError(nil, "Unexpected return")
			case breakSignal:
				return runtimeError(nil, "Unexpected break")
			}
			return err
		}
	}
	return nil
}

func (i *Interpreter) registerNatives() {
	start := i.start
	i.globals.Define("clock", runtime.NativeFunctionValue{
		Name:  "clock",
		Arity: 0,
		Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue{Val: time.Since(start).Seconds()}, nil
		},
	})
}

// lookupVariable reads through the resolver's distance table, falling back
// to globals for unresolved names.
func (i *Interpreter) lookupVariable(name token.Token, expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	if distance, ok := i.locals[expr]; ok {
		val, err := env.GetAt(distance, name.Lexeme)
		if err != nil {
			return nil, runtimeError(&name, "%s", err.Error())
		}
		return val, nil
	}
	val, err := i.globals.Get(name.Lexeme)
	if err != nil {
		return nil, runtimeError(&name, "%s", err.Error())
	}
	return val, nil
}

func runtimeError(tok *token.Token, format string, args ...any) error {
	return token.NewError(token.KindRuntime, tok, fmt.Sprintf(format, args...))
}
