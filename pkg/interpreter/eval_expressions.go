package interpreter

import (
	"github.com/Shadlock0133/lox/pkg/ast"
	"github.com/Shadlock0133/lox/pkg/runtime"
	"github.com/Shadlock0133/lox/pkg/token"
)

func (i *Interpreter) evaluate(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpression:
		return literalValue(e.Value), nil

	case *ast.GroupingExpression:
		return i.evaluate(e.Expr, env)

	case *ast.VariableExpression:
		return i.lookupVariable(e.Name, e, env)

	case *ast.AssignExpression:
		value, err := i.evaluate(e.Value, env)
		if err != nil {
			return nil, err
		}
		if distance, ok := i.locals[e]; ok {
			if err := env.AssignAt(distance, e.Name.Lexeme, value); err != nil {
				return nil, runtimeError(&e.Name, "%s", err.Error())
			}
		} else if err := i.globals.Assign(e.Name.Lexeme, value); err != nil {
			return nil, runtimeError(&e.Name, "%s", err.Error())
		}
		return value, nil

	case *ast.UnaryExpression:
		return i.evaluateUnary(e, env)

	case *ast.BinaryExpression:
		return i.evaluateBinary(e, env)

	case *ast.CallExpression:
		return i.evaluateCall(e, env)

	case *ast.GetExpression:
		object, err := i.evaluate(e.Object, env)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*runtime.InstanceValue)
		if !ok {
			return nil, runtimeError(&e.Name, "Only instances have properties.")
		}
		value, found := instance.Get(e.Name.Lexeme)
		if !found {
			return nil, runtimeError(&e.Name, "Undefined property '%s'.", e.Name.Lexeme)
		}
		return value, nil

	case *ast.SetExpression:
		object, err := i.evaluate(e.Object, env)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*runtime.InstanceValue)
		if !ok {
			return nil, runtimeError(&e.Name, "Only instances have fields.")
		}
		value, err := i.evaluate(e.Value, env)
		if err != nil {
			return nil, err
		}
		instance.Set(e.Name.Lexeme, value)
		return value, nil

	case *ast.ThisExpression:
		return i.lookupVariable(e.Keyword, e, env)

	case *ast.SuperExpression:
		return i.evaluateSuper(e, env)

	default:
		return nil, runtimeError(nil, "unsupported expression type: %s", expr.NodeType())
	}
}

func literalValue(v any) runtime.Value {
	switch val := v.(type) {
	case nil:
		return runtime.NilValue{}
	case bool:
		return runtime.BoolValue{Val: val}
	case float64:
		return runtime.NumberValue{Val: val}
	case string:
		return runtime.StringValue{Val: val}
	default:
		return runtime.NilValue{}
	}
}

func (i *Interpreter) evaluateUnary(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluate(expr.Right, env)
	if err != nil {
		return nil, err
	}
	switch expr.Op.Type {
	case token.Minus:
		number, ok := value.(runtime.NumberValue)
		if !ok {
			return nil, runtimeError(&expr.Op, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -number.Val}, nil
	case token.Bang:
		return runtime.BoolValue{Val: !runtime.IsTruthy(value)}, nil
	default:
		return nil, runtimeError(&expr.Op, "Unary expression must contain '-' or '!'.")
	}
}

func (i *Interpreter) evaluateBinary(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(expr.Left, env)
	if err != nil {
		return nil, err
	}

	// and/or short-circuit, returning whichever operand decided the result.
	switch expr.Op.Type {
	case token.Or:
		if runtime.IsTruthy(left) {
			return left, nil
		}
		return i.evaluate(expr.Right, env)
	case token.And:
		if !runtime.IsTruthy(left) {
			return left, nil
		}
		return i.evaluate(expr.Right, env)
	}

	right, err := i.evaluate(expr.Right, env)
	if err != nil {
		return nil, err
	}

	numberOp := func(f func(l, r float64) runtime.Value) (runtime.Value, error) {
		l, lok := left.(runtime.NumberValue)
		r, rok := right.(runtime.NumberValue)
		if !lok || !rok {
			return nil, runtimeError(&expr.Op, "Operands must be a numbers.")
		}
		return f(l.Val, r.Val), nil
	}

	switch expr.Op.Type {
	case token.Plus:
		return i.evaluatePlus(expr.Op, left, right)
	case token.Minus:
		return numberOp(func(l, r float64) runtime.Value { return runtime.NumberValue{Val: l - r} })
	case token.Star:
		return numberOp(func(l, r float64) runtime.Value { return runtime.NumberValue{Val: l * r} })
	case token.Slash:
		if r, ok := right.(runtime.NumberValue); ok && r.Val == 0 {
			return nil, runtimeError(&expr.Op, "Can't divide by zero.")
		}
		return numberOp(func(l, r float64) runtime.Value { return runtime.NumberValue{Val: l / r} })
	case token.Greater:
		return numberOp(func(l, r float64) runtime.Value { return runtime.BoolValue{Val: l > r} })
	case token.GreaterEqual:
		return numberOp(func(l, r float64) runtime.Value { return runtime.BoolValue{Val: l >= r} })
	case token.Less:
		return numberOp(func(l, r float64) runtime.Value { return runtime.BoolValue{Val: l < r} })
	case token.LessEqual:
		return numberOp(func(l, r float64) runtime.Value { return runtime.BoolValue{Val: l <= r} })
	case token.EqualEqual:
		return runtime.BoolValue{Val: runtime.Equals(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !runtime.Equals(left, right)}, nil
	default:
		return nil, runtimeError(&expr.Op, "Invalid binary operator.")
	}
}

// evaluatePlus adds numbers, and concatenates when either side is a string,
// coercing the other side to its printed form.
func (i *Interpreter) evaluatePlus(op token.Token, left, right runtime.Value) (runtime.Value, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if lok && rok {
		return runtime.NumberValue{Val: l.Val + r.Val}, nil
	}
	_, lstr := left.(runtime.StringValue)
	_, rstr := right.(runtime.StringValue)
	if lstr || rstr {
		return runtime.StringValue{Val: runtime.Format(left) + runtime.Format(right)}, nil
	}
	return nil, runtimeError(&op, "Operands must begin with a string or be two numbers.")
}

func (i *Interpreter) evaluateCall(expr *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluate(expr.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]runtime.Value, 0, len(expr.Args))
	for _, argExpr := range expr.Args {
		arg, err := i.evaluate(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		if err := checkArity(expr.Paren, fn.Arity(), len(args)); err != nil {
			return nil, err
		}
		return i.callFunction(fn, args)
	case runtime.NativeFunctionValue:
		if err := checkArity(expr.Paren, fn.Arity, len(args)); err != nil {
			return nil, err
		}
		return fn.Impl(&runtime.NativeCallContext{Env: env}, args)
	case *runtime.ClassValue:
		if err := checkArity(expr.Paren, fn.Arity(), len(args)); err != nil {
			return nil, err
		}
		return i.instantiate(fn, args)
	default:
		return nil, runtimeError(&expr.Paren, "Can only call functions and classes.")
	}
}

func checkArity(paren token.Token, want, got int) error {
	if want != got {
		return runtimeError(&paren, "Expected %d arguments but got %d.", want, got)
	}
	return nil
}

func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	env := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	err := i.executeBlock(fn.Declaration.Body, env)
	if rs, ok := err.(returnSignal); ok {
		if fn.IsInitializer {
			return fn.Closure.GetAt(0, "this")
		}
		return rs.value, nil
	}
	if err != nil {
		return nil, err
	}
	if fn.IsInitializer {
		return fn.Closure.GetAt(0, "this")
	}
	return runtime.NilValue{}, nil
}

func (i *Interpreter) instantiate(class *runtime.ClassValue, args []runtime.Value) (runtime.Value, error) {
	instance := runtime.NewInstance(class)
	if init := class.FindMethod("init"); init != nil {
		if _, err := i.callFunction(init.Bind(instance), args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (i *Interpreter) evaluateSuper(expr *ast.SuperExpression, env *runtime.Environment) (runtime.Value, error) {
	distance, ok := i.locals[expr]
	if !ok {
		return nil, runtimeError(&expr.Keyword, "Unresolved 'super'.")
	}
	superVal, err := env.GetAt(distance, "super")
	if err != nil {
		return nil, runtimeError(&expr.Keyword, "%s", err.Error())
	}
	superclass, ok := superVal.(*runtime.ClassValue)
	if !ok {
		return nil, runtimeError(&expr.Keyword, "Superclass must be a class.")
	}
	thisVal, err := env.GetAt(distance-1, "this")
	if err != nil {
		return nil, runtimeError(&expr.Keyword, "%s", err.Error())
	}
	instance, ok := thisVal.(*runtime.InstanceValue)
	if !ok {
		return nil, runtimeError(&expr.Keyword, "'super' outside of an instance method.")
	}
	method := superclass.FindMethod(expr.Method.Lexeme)
	if method == nil {
		return nil, runtimeError(&expr.Method, "Undefined property '%s'.", expr.Method.Lexeme)
	}
	return method.Bind(instance), nil
}
