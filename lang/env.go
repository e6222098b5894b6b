package lang

import "fmt"

// Env implements a lexical environment chain. Frames are shared by
// reference between closures, nested blocks and in-flight calls and are
// never copied.
type Env struct {
	enclosing *Env
	values    map[string]Value
}

// NewEnv creates an environment with optional enclosing frame.
func NewEnv(enclosing *Env) *Env {
	return &Env{
		enclosing: enclosing,
		values:    make(map[string]Value),
	}
}

// Define binds name to value in current frame, replacing any previous
// binding of the same name in this frame.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Get retrieves a binding, searching enclosing frames if necessary.
func (e *Env) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if val, ok := env.values[name]; ok {
			return val, nil
		}
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnboundVariable, name)
}

// Assign updates an existing binding, searching enclosing frames if
// needed. It never declares.
func (e *Env) Assign(name string, val Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = val
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnboundVariable, name)
}

// Ancestor walks exactly distance enclosing links. It returns nil when
// the chain is shorter than distance.
func (e *Env) Ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt reads name from the frame distance hops out without searching
// any other frame.
func (e *Env) GetAt(distance int, name string) (Value, error) {
	env := e.Ancestor(distance)
	if env == nil {
		return Value{}, fmt.Errorf("%w: %s: no frame at distance %d", ErrUnboundVariable, name, distance)
	}
	val, ok := env.values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s: not declared at distance %d", ErrUnboundVariable, name, distance)
	}
	return val, nil
}

// AssignAt writes name in the frame distance hops out.
func (e *Env) AssignAt(distance int, name string, val Value) error {
	env := e.Ancestor(distance)
	if env == nil {
		return fmt.Errorf("%w: %s: no frame at distance %d", ErrUnboundVariable, name, distance)
	}
	if _, ok := env.values[name]; !ok {
		return fmt.Errorf("%w: %s: not declared at distance %d", ErrUnboundVariable, name, distance)
	}
	env.values[name] = val
	return nil
}

// Has reports whether name is bound in this frame only.
func (e *Env) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Enclosing returns the enclosing environment.
func (e *Env) Enclosing() *Env {
	return e.enclosing
}
