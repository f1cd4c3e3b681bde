package interpreter

import "github.com/Shadlock0133/lox/pkg/runtime"

// Control flow travels as error-typed signals and is unwound at function
// and loop boundaries. A signal escaping to the caller is an interpreter
// bug; Interpret converts any that do into runtime errors.

type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "Unexpected return" }

type breakSignal struct{}

func (breakSignal) Error() string { return "Unexpected break" }
