package runtime

import (
	"fmt"
	"strconv"
)

// Format renders a value the way `print` shows it. Numbers print in their
// shortest decimal form with no exponent; negative zero keeps its sign.
func Format(v Value) string {
	switch val := v.(type) {
	case StringValue:
		return val.Val
	case NumberValue:
		return strconv.FormatFloat(val.Val, 'f', -1, 64)
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case NilValue:
		return "nil"
	case *FunctionValue:
		return "<fn " + val.Declaration.Name.Lexeme + ">"
	case NativeFunctionValue:
		return "<native fn>"
	case *ClassValue:
		return val.Name
	case *InstanceValue:
		return val.Class.Name + " instance"
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}
