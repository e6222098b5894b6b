package lang

import (
	"math"
	"strconv"
	"strings"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeNil ValueType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeCallable
)

func (t ValueType) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeCallable:
		return "callable"
	default:
		return "unknown"
	}
}

// Value represents any runtime object in the interpreter. The zero Value
// is nil.
type Value struct {
	Type    ValueType
	payload interface{}
}

// Nil is the nil value.
var Nil = Value{Type: TypeNil}

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, payload: b}
}

// NumberValue constructs a number Value.
func NumberValue(f float64) Value {
	return Value{Type: TypeNumber, payload: f}
}

// StringValue constructs a string Value.
func StringValue(s string) Value {
	return Value{Type: TypeString, payload: s}
}

// CallableValue wraps a function or native.
func CallableValue(c Callable) Value {
	if c == nil {
		return Nil
	}
	return Value{Type: TypeCallable, payload: c}
}

func (v Value) IsNil() bool {
	return v.Type == TypeNil
}

func (v Value) Bool() bool {
	if b, ok := v.payload.(bool); ok {
		return b
	}
	return false
}

func (v Value) Number() float64 {
	if f, ok := v.payload.(float64); ok {
		return f
	}
	return 0
}

func (v Value) Str() string {
	if s, ok := v.payload.(string); ok {
		return s
	}
	return ""
}

func (v Value) Callable() Callable {
	if c, ok := v.payload.(Callable); ok {
		return c
	}
	return nil
}

// String renders the display form used by print, the REPL echo and
// string concatenation.
func (v Value) String() string {
	switch v.Type {
	case TypeNil:
		return "nil"
	case TypeBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case TypeNumber:
		return FormatNumber(v.Number())
	case TypeString:
		return v.Str()
	case TypeCallable:
		if c := v.Callable(); c != nil {
			return c.String()
		}
		return "<fn>"
	default:
		return "<unknown>"
	}
}

// FormatNumber renders f the way doubles are displayed: plain decimals
// between 1e-3 and 1e7, scientific notation outside that range, and no
// trailing ".0" on integral decimals.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	text := strconv.FormatFloat(f, 'E', -1, 64)
	mantissa, exp, _ := strings.Cut(text, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, err := strconv.Atoi(exp)
	if err != nil {
		return text
	}
	return mantissa + "E" + strconv.Itoa(n)
}

// IsTruthy reports whether v counts as true in a condition: nil and false
// are falsy, everything else is truthy.
func IsTruthy(v Value) bool {
	switch v.Type {
	case TypeNil:
		return false
	case TypeBool:
		return v.Bool()
	default:
		return true
	}
}

// Equal implements `==`. Values of different types are never equal and
// callables compare by identity.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeNil:
		return true
	case TypeBool:
		return a.Bool() == b.Bool()
	case TypeNumber:
		return a.Number() == b.Number()
	case TypeString:
		return a.Str() == b.Str()
	case TypeCallable:
		return a.Callable() == b.Callable()
	default:
		return false
	}
}
