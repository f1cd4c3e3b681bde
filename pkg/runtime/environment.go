package runtime

import (
	"fmt"
	"sort"
)

// Environment provides lexical scoping for runtime values.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Assign updates an existing binding in the first scope where it appears.
func (e *Environment) Assign(name string, value Value) error {
	if _, ok := e.values[name]; ok {
		e.values[name] = value
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(name, value)
	}
	return fmt.Errorf("Undefined variable '%s'.", name)
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, fmt.Errorf("Undefined variable '%s'.", name)
}

// Ancestor walks up the parent chain a fixed number of hops.
func (e *Environment) Ancestor(distance int) (*Environment, error) {
	env := e
	for i := 0; i < distance; i++ {
		if env.parent == nil {
			return nil, fmt.Errorf("Non-existent env ancestor")
		}
		env = env.parent
	}
	return env, nil
}

// GetAt reads a binding at a resolver-computed distance.
func (e *Environment) GetAt(distance int, name string) (Value, error) {
	env, err := e.Ancestor(distance)
	if err != nil {
		return nil, err
	}
	v, ok := env.values[name]
	if !ok {
		return nil, fmt.Errorf("Missing variable at %d dist", distance)
	}
	return v, nil
}

// AssignAt writes a binding at a resolver-computed distance.
func (e *Environment) AssignAt(distance int, name string, value Value) error {
	env, err := e.Ancestor(distance)
	if err != nil {
		return err
	}
	if _, ok := env.values[name]; !ok {
		return fmt.Errorf("Missing variable at %d dist", distance)
	}
	env.values[name] = value
	return nil
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
