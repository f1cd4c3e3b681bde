// Package resolver performs the static pass between parsing and evaluation.
// It computes, for every variable use, the lexical distance to the scope
// that declares it, and rejects scope misuse (duplicate declarations,
// self-referential initializers, stray this/super/return/break).
package resolver

import (
	"github.com/Shadlock0133/lox/pkg/ast"
	"github.com/Shadlock0133/lox/pkg/token"
)

// Bindings maps an expression node to the number of scopes between its use
// and its declaration. Expressions absent from the map resolve to globals.
type Bindings map[ast.Expression]int

type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionInitializer
	functionMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

type Resolver struct {
	bindings Bindings
	scopes   []map[string]bool // name -> fully defined?
	function functionType
	class    classType
	loops    int
}

func New() *Resolver {
	return &Resolver{bindings: make(Bindings)}
}

// Resolve walks the statements and returns the computed bindings. The
// resolver can be reused across calls (a REPL resolves line by line against
// the same instance; top-level names stay global either way).
func (r *Resolver) Resolve(statements []ast.Statement) (Bindings, error) {
	if err := r.resolveStatements(statements); err != nil {
		return nil, err
	}
	return r.bindings, nil
}

func (r *Resolver) resolveStatements(statements []ast.Statement) error {
	for _, stmt := range statements {
		if err := r.resolveStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) currentScope() map[string]bool {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

func errorAt(tok token.Token, message string) error {
	return token.NewError(token.KindResolve, &tok, message)
}

// declare marks a name as existing-but-uninitialized in the current scope.
func (r *Resolver) declare(name token.Token) error {
	scope := r.currentScope()
	if scope == nil {
		return nil
	}
	if _, exists := scope[name.Lexeme]; exists {
		return errorAt(name, "Already variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
	return nil
}

func (r *Resolver) define(name token.Token) {
	if scope := r.currentScope(); scope != nil {
		scope[name.Lexeme] = true
	}
}

// resolveLocal records the distance to the declaring scope, if any local
// scope declares the name; globals stay unrecorded.
func (r *Resolver) resolveLocal(expr ast.Expression, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.bindings[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionDeclaration, typ functionType) error {
	enclosing := r.function
	r.function = typ
	enclosingLoops := r.loops
	r.loops = 0

	r.beginScope()
	for _, param := range fn.Params {
		if err := r.declare(param); err != nil {
			return err
		}
		r.define(param)
	}
	err := r.resolveStatements(fn.Body)
	r.endScope()

	r.function = enclosing
	r.loops = enclosingLoops
	return err
}

func (r *Resolver) resolveStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		r.beginScope()
		err := r.resolveStatements(s.Statements)
		r.endScope()
		return err

	case *ast.ClassDeclaration:
		enclosing := r.class
		r.class = classClass

		if err := r.declare(s.Name); err != nil {
			return err
		}
		r.define(s.Name)

		if s.Superclass != nil {
			if s.Superclass.Name.Lexeme == s.Name.Lexeme {
				return errorAt(s.Superclass.Name, "A class can't inherit from itself.")
			}
			r.class = classSubclass
			if err := r.resolveExpression(s.Superclass); err != nil {
				return err
			}
			r.beginScope()
			r.currentScope()["super"] = true
		}

		r.beginScope()
		r.currentScope()["this"] = true

		for _, method := range s.Methods {
			typ := functionMethod
			if method.Name.Lexeme == "init" {
				typ = functionInitializer
			}
			if err := r.resolveFunction(method, typ); err != nil {
				return err
			}
		}

		r.endScope()
		if s.Superclass != nil {
			r.endScope()
		}
		r.class = enclosing
		return nil

	case *ast.ExpressionStatement:
		return r.resolveExpression(s.Expr)

	case *ast.FunctionDeclaration:
		if err := r.declare(s.Name); err != nil {
			return err
		}
		r.define(s.Name)
		return r.resolveFunction(s, functionFunction)

	case *ast.IfStatement:
		if err := r.resolveExpression(s.Cond); err != nil {
			return err
		}
		if err := r.resolveStatement(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return r.resolveStatement(s.Else)
		}
		return nil

	case *ast.PrintStatement:
		return r.resolveExpression(s.Expr)

	case *ast.ReturnStatement:
		if r.function == functionNone {
			return errorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.function == functionInitializer {
				return errorAt(s.Keyword, "Can't return a value from an initializer.")
			}
			return r.resolveExpression(s.Value)
		}
		return nil

	case *ast.VariableDeclaration:
		if err := r.declare(s.Name); err != nil {
			return err
		}
		if s.Init != nil {
			if err := r.resolveExpression(s.Init); err != nil {
				return err
			}
		}
		r.define(s.Name)
		return nil

	case *ast.WhileStatement:
		if err := r.resolveExpression(s.Cond); err != nil {
			return err
		}
		r.loops++
		err := r.resolveStatement(s.Body)
		r.loops--
		return err

	case *ast.BreakStatement:
		if r.loops == 0 {
			return errorAt(s.Keyword, "Can't break outside of a loop.")
		}
		return nil

	default:
		return errorAt(token.Token{}, "Unresolvable statement.")
	}
}

func (r *Resolver) resolveExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.AssignExpression:
		if err := r.resolveExpression(e.Value); err != nil {
			return err
		}
		r.resolveLocal(e, e.Name)
		return nil

	case *ast.BinaryExpression:
		if err := r.resolveExpression(e.Left); err != nil {
			return err
		}
		return r.resolveExpression(e.Right)

	case *ast.CallExpression:
		if err := r.resolveExpression(e.Callee); err != nil {
			return err
		}
		for _, arg := range e.Args {
			if err := r.resolveExpression(arg); err != nil {
				return err
			}
		}
		return nil

	case *ast.GetExpression:
		return r.resolveExpression(e.Object)

	case *ast.GroupingExpression:
		return r.resolveExpression(e.Expr)

	case *ast.LiteralExpression:
		return nil

	case *ast.SetExpression:
		if err := r.resolveExpression(e.Value); err != nil {
			return err
		}
		return r.resolveExpression(e.Object)

	case *ast.SuperExpression:
		switch r.class {
		case classNone:
			return errorAt(e.Keyword, "Can't use 'super' outside of a class.")
		case classClass:
			return errorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)
		return nil

	case *ast.ThisExpression:
		if r.class == classNone {
			return errorAt(e.Keyword, "Can't use 'this' outside of a class.")
		}
		r.resolveLocal(e, e.Keyword)
		return nil

	case *ast.UnaryExpression:
		return r.resolveExpression(e.Right)

	case *ast.VariableExpression:
		if scope := r.currentScope(); scope != nil {
			if defined, present := scope[e.Name.Lexeme]; present && !defined {
				return errorAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
		return nil

	default:
		return errorAt(token.Token{}, "Unresolvable expression.")
	}
}
