package interpreter

import (
	"fmt"

	"github.com/Shadlock0133/lox/pkg/ast"
	"github.com/Shadlock0133/lox/pkg/runtime"
)

func (i *Interpreter) executeStatement(stmt ast.Statement, env *runtime.Environment) error {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		return i.executeBlock(s.Statements, runtime.NewEnvironment(env))

	case *ast.ClassDeclaration:
		return i.executeClassDeclaration(s, env)

	case *ast.ExpressionStatement:
		_, err := i.evaluate(s.Expr, env)
		return err

	case *ast.FunctionDeclaration:
		fn := &runtime.FunctionValue{Declaration: s, Closure: env}
		env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.IfStatement:
		cond, err := i.evaluate(s.Cond, env)
		if err != nil {
			return err
		}
		if runtime.IsTruthy(cond) {
			return i.executeStatement(s.Then, env)
		}
		if s.Else != nil {
			return i.executeStatement(s.Else, env)
		}
		return nil

	case *ast.PrintStatement:
		value, err := i.evaluate(s.Expr, env)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(i.stdout, runtime.Format(value)); err != nil {
			return runtimeError(nil, "%s", err.Error())
		}
		return nil

	case *ast.ReturnStatement:
		var value runtime.Value = runtime.NilValue{}
		if s.Value != nil {
			var err error
			value, err = i.evaluate(s.Value, env)
			if err != nil {
				return err
			}
		}
		return returnSignal{value: value}

	case *ast.VariableDeclaration:
		var value runtime.Value = runtime.NilValue{}
		if s.Init != nil {
			var err error
			value, err = i.evaluate(s.Init, env)
			if err != nil {
				return err
			}
		}
		env.Define(s.Name.Lexeme, value)
		return nil

	case *ast.WhileStatement:
		for {
			cond, err := i.evaluate(s.Cond, env)
			if err != nil {
				return err
			}
			if !runtime.IsTruthy(cond) {
				return nil
			}
			if err := i.executeStatement(s.Body, env); err != nil {
				if _, ok := err.(breakSignal); ok {
					return nil
				}
				return err
			}
		}

	case *ast.BreakStatement:
		return breakSignal{}

	default:
		return runtimeError(nil, "unsupported statement type: %s", stmt.NodeType())
	}
}

func (i *Interpreter) executeBlock(statements []ast.Statement, env *runtime.Environment) error {
	for _, stmt := range statements {
		if err := i.executeStatement(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeClassDeclaration(decl *ast.ClassDeclaration, env *runtime.Environment) error {
	var superclass *runtime.ClassValue
	if decl.Superclass != nil {
		superVal, err := i.lookupVariable(decl.Superclass.Name, decl.Superclass, env)
		if err != nil {
			return err
		}
		cls, ok := superVal.(*runtime.ClassValue)
		if !ok {
			return runtimeError(&decl.Superclass.Name, "Superclass must be a class.")
		}
		superclass = cls
	}

	// The name is defined before the methods are built so they can refer to
	// the class; the binding is filled in afterwards.
	env.Define(decl.Name.Lexeme, runtime.NilValue{})

	methodEnv := env
	if superclass != nil {
		methodEnv = runtime.NewEnvironment(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*runtime.FunctionValue, len(decl.Methods))
	for _, method := range decl.Methods {
		methods[method.Name.Lexeme] = &runtime.FunctionValue{
			Declaration:   method,
			Closure:       methodEnv,
			IsInitializer: method.Name.Lexeme == "init",
		}
	}

	class := &runtime.ClassValue{
		Name:       decl.Name.Lexeme,
		Superclass: superclass,
		Methods:    methods,
	}
	return env.Assign(decl.Name.Lexeme, class)
}
