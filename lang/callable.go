package lang

import "fmt"

// Callable is anything that can appear in callee position.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// NativeFunc is the Go implementation behind a Native.
type NativeFunc func(in *Interpreter, args []Value) (Value, error)

// Native represents a built-in Go function exposed to the interpreter.
type Native struct {
	Name   string
	Params int
	Fn     NativeFunc
}

// NewNative wraps fn as a callable of fixed arity.
func NewNative(name string, arity int, fn NativeFunc) *Native {
	return &Native{Name: name, Params: arity, Fn: fn}
}

func (n *Native) Arity() int { return n.Params }

func (n *Native) Call(in *Interpreter, args []Value) (Value, error) {
	return n.Fn(in, args)
}

func (n *Native) String() string { return "<native fn>" }

// Function is a user-defined function closing over the frame that was
// active where it was declared.
type Function struct {
	Declaration *FunctionStmt
	Closure     *Env
}

// NewFunction captures closure by reference.
func NewFunction(decl *FunctionStmt, closure *Env) *Function {
	return &Function{Declaration: decl, Closure: closure}
}

func (f *Function) Arity() int { return len(f.Declaration.Params) }

// Call binds arguments in a fresh frame whose parent is the captured
// closure, not the caller's frame.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnv(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}
	res, err := in.executeBlock(f.Declaration.Body, env)
	if err != nil {
		return Value{}, err
	}
	switch res.kind {
	case flowReturn:
		return res.value, nil
	case flowBreak:
		return Value{}, newRuntimeError(res.token, ErrBreakOutsideLoop, "Can't use 'break' outside of a loop.")
	}
	return Nil, nil
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}
