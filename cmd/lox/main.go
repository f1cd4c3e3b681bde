// Command lox is a tree-walking interpreter for the Lox language. With a
// script argument it runs the script; without one it drops into a REPL.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/Shadlock0133/lox/pkg/ast"
	"github.com/Shadlock0133/lox/pkg/driver"
	"github.com/Shadlock0133/lox/pkg/interpreter"
	"github.com/Shadlock0133/lox/pkg/scanner"
)

const version = "0.1.0"

// exitError carries a process exit code out through cobra.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(driver.ExitUsage)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "lox [script]",
		Short:         "Run a Lox script, or start a REPL",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runREPL(cmd.OutOrStdout(), cmd.ErrOrStderr())
			}
			return runFile(args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	root.AddCommand(
		newReplCommand(),
		newTestCommand(),
		newTokensCommand(),
		newAstCommand(),
		newVersionCommand(),
	)
	return root
}

func runFile(path string, stdout, stderr io.Writer) error {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError{code: driver.ExitUsage}
	}
	if err := driver.RunSource(string(source), stdout); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError{code: driver.ExitCode(err)}
	}
	return nil
}

func newReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// runREPL reads a line at a time, keeping one interpreter alive so
// definitions persist across lines. Errors are printed and the session
// continues; Ctrl-C or Ctrl-D ends it.
func runREPL(stdout, stderr io.Writer) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	interp := interpreter.New(stdout)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		program, err := driver.Load(line)
		if err != nil {
			fmt.Fprintln(stderr, err)
			continue
		}
		interp.BindLocals(program.Bindings)
		if err := interp.Interpret(program.Statements); err != nil {
			fmt.Fprintln(stderr, err)
		}
	}
}

func newTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test <dir>",
		Short: "Run the expectation-comment test suite under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := driver.NewSuite(args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			result, err := suite.Run()
			if err != nil {
				return err
			}
			if !result.Ok() {
				return exitError{code: 1}
			}
			return nil
		},
	}
}

func newTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <script>",
		Short: "Print the token stream of a script, trivia included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return exitError{code: driver.ExitUsage}
			}
			tokens, err := scanner.ScanTokens(string(source))
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return exitError{code: driver.ExitStatic}
			}
			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintf(
					out, "%d:%d\t%s\t%q\n",
					tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Lexeme,
				)
			}
			return nil
		},
	}
}

func newAstCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <script>",
		Short: "Print the parsed syntax tree of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := driver.LoadFile(args[0])
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return exitError{code: driver.ExitStatic}
			}
			fmt.Fprintln(cmd.OutOrStdout(), ast.PrintProgram(program.Statements))
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the interpreter version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lox %s\n", version)
		},
	}
}
