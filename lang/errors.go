package lang

import (
	"errors"
	"fmt"
)

// Runtime error kinds. A *RuntimeError unwraps to exactly one of these.
var (
	ErrType                  = errors.New("type error")
	ErrDivisionByZero        = errors.New("division by zero")
	ErrUnboundVariable       = errors.New("unbound variable")
	ErrNotCallable           = errors.New("not callable")
	ErrArityMismatch         = errors.New("arity mismatch")
	ErrBreakOutsideLoop      = errors.New("break outside loop")
	ErrReturnOutsideFunction = errors.New("return outside function")
)

// RuntimeError reports a failure while evaluating, with the token that
// caused it.
type RuntimeError struct {
	Token   Token
	Kind    error
	Message string
}

func newRuntimeError(tok Token, kind error, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Token:   tok,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("[line %d] %s", e.Token.Pos.Line, e.Message)
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}

// Line returns the source line the error is attributed to.
func (e *RuntimeError) Line() int {
	return e.Token.Pos.Line
}
