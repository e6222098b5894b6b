package lang

import "fmt"

type flowKind int

const (
	flowNormal flowKind = iota
	flowReturn
	flowBreak
)

// outcome is how a statement finished: normally, or unwinding towards the
// nearest call (return) or loop (break). Errors travel separately.
type outcome struct {
	kind  flowKind
	value Value
	token Token
}

var normal = outcome{kind: flowNormal}

func (in *Interpreter) execute(stmt Stmt) (outcome, error) {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		if _, err := in.Evaluate(s.Expression); err != nil {
			return normal, err
		}
		return normal, nil
	case *PrintStmt:
		val, err := in.Evaluate(s.Expression)
		if err != nil {
			return normal, err
		}
		if _, err := fmt.Fprintln(in.out, val.String()); err != nil {
			return normal, fmt.Errorf("print: %w", err)
		}
		return normal, nil
	case *VarStmt:
		val := Nil
		if s.Initializer != nil {
			v, err := in.Evaluate(s.Initializer)
			if err != nil {
				return normal, err
			}
			val = v
		}
		in.env.Define(s.Name.Lexeme, val)
		return normal, nil
	case *BlockStmt:
		return in.executeBlock(s.Statements, NewEnv(in.env))
	case *IfStmt:
		cond, err := in.Evaluate(s.Condition)
		if err != nil {
			return normal, err
		}
		if IsTruthy(cond) {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return normal, nil
	case *WhileStmt:
		return in.executeWhile(s)
	case *FunctionStmt:
		fn := NewFunction(s, in.env)
		in.env.Define(s.Name.Lexeme, CallableValue(fn))
		return normal, nil
	case *ReturnStmt:
		val := Nil
		if s.Value != nil {
			v, err := in.Evaluate(s.Value)
			if err != nil {
				return normal, err
			}
			val = v
		}
		return outcome{kind: flowReturn, value: val, token: s.Keyword}, nil
	case *BreakStmt:
		return outcome{kind: flowBreak, token: s.Keyword}, nil
	case nil:
		return normal, fmt.Errorf("execute: nil statement")
	default:
		return normal, fmt.Errorf("execute: unsupported statement %T", stmt)
	}
}

func (in *Interpreter) executeWhile(s *WhileStmt) (outcome, error) {
	for {
		cond, err := in.Evaluate(s.Condition)
		if err != nil {
			return normal, err
		}
		if !IsTruthy(cond) {
			return normal, nil
		}
		res, err := in.execute(s.Body)
		if err != nil {
			return normal, err
		}
		switch res.kind {
		case flowBreak:
			return normal, nil
		case flowReturn:
			return res, nil
		}
	}
}

// executeBlock runs stmts with env as the active frame and restores the
// previous frame on every exit path.
func (in *Interpreter) executeBlock(stmts []Stmt, env *Env) (outcome, error) {
	previous := in.env
	in.env = env
	defer func() {
		in.env = previous
	}()

	for _, stmt := range stmts {
		res, err := in.execute(stmt)
		if err != nil {
			return normal, err
		}
		if res.kind != flowNormal {
			return res, nil
		}
	}
	return normal, nil
}
