package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a node as a parenthesized tree, one top-level statement per
// line, for the CLI's ast dump.
func Print(node Node) string {
	switch n := node.(type) {
	case *LiteralExpression:
		return printLiteral(n.Value)
	case *VariableExpression:
		return n.Name.Lexeme
	case *AssignExpression:
		return parens("assign "+n.Name.Lexeme, n.Value)
	case *BinaryExpression:
		return parens(n.Op.Lexeme, n.Left, n.Right)
	case *UnaryExpression:
		return parens(n.Op.Lexeme, n.Right)
	case *GroupingExpression:
		return parens("group", n.Expr)
	case *CallExpression:
		parts := make([]Node, 0, len(n.Args)+1)
		parts = append(parts, n.Callee)
		for _, arg := range n.Args {
			parts = append(parts, arg)
		}
		return parens("call", parts...)
	case *GetExpression:
		return parens("get "+n.Name.Lexeme, n.Object)
	case *SetExpression:
		return parens("set "+n.Name.Lexeme, n.Object, n.Value)
	case *ThisExpression:
		return "this"
	case *SuperExpression:
		return "(super " + n.Method.Lexeme + ")"
	case *BlockStatement:
		return parens("block", statementNodes(n.Statements)...)
	case *ClassDeclaration:
		head := "class " + n.Name.Lexeme
		if n.Superclass != nil {
			head += " < " + n.Superclass.Name.Lexeme
		}
		parts := make([]Node, 0, len(n.Methods))
		for _, method := range n.Methods {
			parts = append(parts, method)
		}
		return parens(head, parts...)
	case *ExpressionStatement:
		return parens("expr", n.Expr)
	case *FunctionDeclaration:
		params := make([]string, 0, len(n.Params))
		for _, p := range n.Params {
			params = append(params, p.Lexeme)
		}
		head := "fun " + n.Name.Lexeme + " (" + strings.Join(params, " ") + ")"
		return parens(head, statementNodes(n.Body)...)
	case *IfStatement:
		if n.Else != nil {
			return parens("if", n.Cond, n.Then, n.Else)
		}
		return parens("if", n.Cond, n.Then)
	case *PrintStatement:
		return parens("print", n.Expr)
	case *ReturnStatement:
		if n.Value != nil {
			return parens("return", n.Value)
		}
		return "(return)"
	case *VariableDeclaration:
		if n.Init != nil {
			return parens("var "+n.Name.Lexeme, n.Init)
		}
		return "(var " + n.Name.Lexeme + ")"
	case *WhileStatement:
		return parens("while", n.Cond, n.Body)
	case *BreakStatement:
		return "(break)"
	default:
		return fmt.Sprintf("(unknown %s)", node.NodeType())
	}
}

// PrintProgram renders a statement list, one statement per line.
func PrintProgram(statements []Statement) string {
	lines := make([]string, 0, len(statements))
	for _, stmt := range statements {
		lines = append(lines, Print(stmt))
	}
	return strings.Join(lines, "\n")
}

func parens(head string, parts ...Node) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(head)
	for _, part := range parts {
		b.WriteByte(' ')
		b.WriteString(Print(part))
	}
	b.WriteByte(')')
	return b.String()
}

func statementNodes(statements []Statement) []Node {
	nodes := make([]Node, 0, len(statements))
	for _, stmt := range statements {
		nodes = append(nodes, stmt)
	}
	return nodes
}

func printLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
