package lang

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Interpreter walks statements and expressions against a chain of
// environments.
type Interpreter struct {
	globals *Env
	env     *Env
	locals  map[Expr]int
	out     io.Writer
	logger  *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput redirects print statements.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// NewInterpreter constructs an interpreter rooted at a new global
// environment.
func NewInterpreter(opts ...Option) *Interpreter {
	globals := NewEnv(nil)
	in := &Interpreter{
		globals: globals,
		env:     globals,
		locals:  make(map[Expr]int),
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.logger == nil {
		in.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return in
}

// Globals returns the outermost frame.
func (in *Interpreter) Globals() *Env {
	return in.globals
}

// Output returns the writer print statements go to.
func (in *Interpreter) Output() io.Writer {
	return in.out
}

// Logger returns the interpreter's logger.
func (in *Interpreter) Logger() *slog.Logger {
	return in.logger
}

// Resolve records that expr refers to a binding depth frames out from the
// frame active when expr is evaluated.
func (in *Interpreter) Resolve(expr Expr, depth int) {
	in.locals[expr] = depth
}

// Interpret executes a program. In interactive mode the display string of
// every top-level expression statement is collected and returned instead
// of being discarded. The first runtime error aborts the call; bindings
// made before it stay in place.
func (in *Interpreter) Interpret(stmts []Stmt, interactive bool) ([]string, error) {
	var echoed []string
	for _, stmt := range stmts {
		if es, ok := stmt.(*ExpressionStmt); ok && interactive {
			val, err := in.Evaluate(es.Expression)
			if err != nil {
				return echoed, err
			}
			echoed = append(echoed, val.String())
			continue
		}
		if err := in.Execute(stmt); err != nil {
			return echoed, err
		}
	}
	return echoed, nil
}

// Execute runs a single top-level statement. A return or break that is
// not caught by an enclosing function or loop is reported as an error.
func (in *Interpreter) Execute(stmt Stmt) error {
	res, err := in.execute(stmt)
	if err != nil {
		return err
	}
	switch res.kind {
	case flowReturn:
		return newRuntimeError(res.token, ErrReturnOutsideFunction, "Can't return from top-level code.")
	case flowBreak:
		return newRuntimeError(res.token, ErrBreakOutsideLoop, "Can't use 'break' outside of a loop.")
	}
	return nil
}

// Evaluate computes the value of expr in the active environment.
func (in *Interpreter) Evaluate(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return e.Value, nil
	case *Grouping:
		return in.Evaluate(e.Expression)
	case *Logical:
		return in.evalLogical(e)
	case *Ternary:
		return in.evalTernary(e)
	case *Unary:
		return in.evalUnary(e)
	case *Binary:
		return in.evalBinary(e)
	case *Variable:
		return in.lookUpVariable(e.Name, e)
	case *Assign:
		return in.evalAssign(e)
	case *Call:
		return in.evalCall(e)
	case nil:
		return Value{}, fmt.Errorf("evaluate: nil expression")
	default:
		return Value{}, fmt.Errorf("evaluate: unsupported expression %T", expr)
	}
}

func (in *Interpreter) evalLogical(e *Logical) (Value, error) {
	left, err := in.Evaluate(e.Left)
	if err != nil {
		return Value{}, err
	}
	if e.Operator.Type == TokenOr {
		if IsTruthy(left) {
			return left, nil
		}
	} else if !IsTruthy(left) {
		return left, nil
	}
	return in.Evaluate(e.Right)
}

func (in *Interpreter) evalTernary(e *Ternary) (Value, error) {
	cond, err := in.Evaluate(e.Condition)
	if err != nil {
		return Value{}, err
	}
	if IsTruthy(cond) {
		return in.Evaluate(e.Then)
	}
	return in.Evaluate(e.Else)
}

func (in *Interpreter) evalUnary(e *Unary) (Value, error) {
	right, err := in.Evaluate(e.Right)
	if err != nil {
		return Value{}, err
	}
	switch e.Operator.Type {
	case TokenBang:
		return BoolValue(!IsTruthy(right)), nil
	case TokenMinus:
		if err := checkNumberOperand(e.Operator, right); err != nil {
			return Value{}, err
		}
		return NumberValue(-right.Number()), nil
	}
	return Value{}, fmt.Errorf("evaluate: unknown unary operator %s", e.Operator.Type)
}

func (in *Interpreter) evalBinary(e *Binary) (Value, error) {
	left, err := in.Evaluate(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := in.Evaluate(e.Right)
	if err != nil {
		return Value{}, err
	}
	op := e.Operator

	switch op.Type {
	case TokenBangEqual:
		return BoolValue(!Equal(left, right)), nil
	case TokenEqualEqual:
		return BoolValue(Equal(left, right)), nil
	case TokenPlus:
		return add(op, left, right)
	}

	if err := checkNumberOperands(op, left, right); err != nil {
		return Value{}, err
	}
	l, r := left.Number(), right.Number()
	switch op.Type {
	case TokenGreater:
		return BoolValue(l > r), nil
	case TokenGreaterEqual:
		return BoolValue(l >= r), nil
	case TokenLess:
		return BoolValue(l < r), nil
	case TokenLessEqual:
		return BoolValue(l <= r), nil
	case TokenMinus:
		return NumberValue(l - r), nil
	case TokenStar:
		return NumberValue(l * r), nil
	case TokenSlash:
		if r == 0 {
			return Value{}, newRuntimeError(op, ErrDivisionByZero, "Division by zero not allowed.")
		}
		return NumberValue(l / r), nil
	}
	return Value{}, fmt.Errorf("evaluate: unknown binary operator %s", op.Type)
}

// add implements `+`: numeric sum, string concatenation, and display
// string concatenation when exactly one side is a string.
func add(op Token, left, right Value) (Value, error) {
	switch {
	case left.Type == TypeNumber && right.Type == TypeNumber:
		return NumberValue(left.Number() + right.Number()), nil
	case left.Type == TypeString && right.Type == TypeString:
		return StringValue(left.Str() + right.Str()), nil
	case left.Type == TypeString || right.Type == TypeString:
		return StringValue(left.String() + right.String()), nil
	}
	return Value{}, newRuntimeError(op, ErrType, "Operands must be two numbers or two strings.")
}

func checkNumberOperand(op Token, operand Value) error {
	if operand.Type == TypeNumber {
		return nil
	}
	return newRuntimeError(op, ErrType, "Operand must be a number.")
}

func checkNumberOperands(op Token, left, right Value) error {
	if left.Type == TypeNumber && right.Type == TypeNumber {
		return nil
	}
	return newRuntimeError(op, ErrType, "Operands must be numbers.")
}

func (in *Interpreter) lookUpVariable(name Token, expr Expr) (Value, error) {
	if distance, ok := in.locals[expr]; ok {
		val, err := in.env.GetAt(distance, name.Lexeme)
		if err != nil {
			return Value{}, newRuntimeError(name, ErrUnboundVariable, "Undefined variable '%s'.", name.Lexeme)
		}
		return val, nil
	}
	val, err := in.globals.Get(name.Lexeme)
	if err != nil {
		return Value{}, newRuntimeError(name, ErrUnboundVariable, "Undefined variable '%s'.", name.Lexeme)
	}
	return val, nil
}

func (in *Interpreter) evalAssign(e *Assign) (Value, error) {
	val, err := in.Evaluate(e.Value)
	if err != nil {
		return Value{}, err
	}
	if distance, ok := in.locals[e]; ok {
		err = in.env.AssignAt(distance, e.Name.Lexeme, val)
	} else {
		err = in.globals.Assign(e.Name.Lexeme, val)
	}
	if err != nil {
		return Value{}, newRuntimeError(e.Name, ErrUnboundVariable, "Undefined variable '%s'.", e.Name.Lexeme)
	}
	return val, nil
}

func (in *Interpreter) evalCall(e *Call) (Value, error) {
	callee, err := in.Evaluate(e.Callee)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		val, err := in.Evaluate(arg)
		if err != nil {
			return Value{}, err
		}
		args = append(args, val)
	}

	fn := callee.Callable()
	if callee.Type != TypeCallable || fn == nil {
		return Value{}, newRuntimeError(e.Paren, ErrNotCallable, "Can only call functions.")
	}
	if len(args) != fn.Arity() {
		return Value{}, newRuntimeError(e.Paren, ErrArityMismatch, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	in.logger.Debug("call", slog.String("callee", fn.String()), slog.Int("args", len(args)), slog.Int("line", e.Paren.Pos.Line))
	return fn.Call(in, args)
}
