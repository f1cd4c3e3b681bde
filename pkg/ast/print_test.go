package ast

import (
	"testing"

	"github.com/Shadlock0133/lox/pkg/token"
)

func ident(name string) token.Token {
	return token.Token{Type: token.Identifier, Lexeme: name}
}

func op(typ token.Type, lexeme string) token.Token {
	return token.Token{Type: typ, Lexeme: lexeme}
}

func TestPrintExpressions(t *testing.T) {
	cases := []struct {
		node Node
		want string
	}{
		{NewLiteral(1.0), "1"},
		{NewLiteral(12.5), "12.5"},
		{NewLiteral("hi"), `"hi"`},
		{NewLiteral(nil), "nil"},
		{NewLiteral(true), "true"},
		{NewBinary(op(token.Plus, "+"), NewLiteral(1.0), NewLiteral(2.0)), "(+ 1 2)"},
		{NewUnary(op(token.Minus, "-"), NewLiteral(1.0)), "(- 1)"},
		{NewGrouping(NewVariable(ident("x"))), "(group x)"},
		{NewAssign(ident("x"), NewLiteral(1.0)), "(assign x 1)"},
		{NewCall(NewVariable(ident("f")), op(token.RightParen, ")"), []Expression{NewLiteral(1.0)}), "(call f 1)"},
		{NewGet(NewVariable(ident("obj")), ident("field")), "(get field obj)"},
		{NewThis(op(token.This, "this")), "this"},
		{NewSuper(op(token.Super, "super"), ident("cook")), "(super cook)"},
	}
	for _, c := range cases {
		if got := Print(c.node); got != c.want {
			t.Fatalf("expected %q, got %q", c.want, got)
		}
	}
}

func TestPrintStatements(t *testing.T) {
	decl := NewVariableDeclaration(ident("a"), NewLiteral(1.0))
	if got := Print(decl); got != "(var a 1)" {
		t.Fatalf("unexpected output %q", got)
	}

	fn := NewFunction(ident("add"), []token.Token{ident("a"), ident("b")}, []Statement{
		NewReturn(op(token.Return, "return"), NewBinary(op(token.Plus, "+"), NewVariable(ident("a")), NewVariable(ident("b")))),
	})
	if got := Print(fn); got != "(fun add (a b) (return (+ a b)))" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPrintProgramJoinsLines(t *testing.T) {
	program := []Statement{
		NewPrint(NewLiteral(1.0)),
		NewPrint(NewLiteral(2.0)),
	}
	if got := PrintProgram(program); got != "(print 1)\n(print 2)" {
		t.Fatalf("unexpected output %q", got)
	}
}
