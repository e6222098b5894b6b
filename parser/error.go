package parser

import (
	"errors"
	"fmt"

	"github.com/sergev/lox/lang"
)

// Error represents a scan or parse error with its source position.
type Error struct {
	Pos        lang.Position
	Err        error
	Incomplete bool
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Err.Error())
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(pos lang.Position, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Pos: pos, Err: err}
}

func newIncompleteError(pos lang.Position, err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		Pos:        pos,
		Err:        err,
		Incomplete: true,
	}
}

// IsIncomplete reports whether the supplied error represents input that
// ended before a construct was closed.
func IsIncomplete(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Incomplete
	}
	return false
}
