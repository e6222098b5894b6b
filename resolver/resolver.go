// Package resolver computes, for every variable reference and assignment
// inside a function or block, how many frames separate it from the frame
// that declares the name. References that are not found in any enclosing
// local scope are left unresolved and looked up among the globals.
package resolver

import (
	"errors"
	"fmt"

	"github.com/sergev/lox/lang"
)

// Binder receives resolved distances. *lang.Interpreter implements it.
type Binder interface {
	Resolve(expr lang.Expr, depth int)
}

// Error is a static error found while resolving.
type Error struct {
	Token   lang.Token
	Message string
}

func (e *Error) Error() string {
	where := "at end"
	if e.Token.Type != lang.TokenEOF {
		where = fmt.Sprintf("at '%s'", e.Token.Lexeme)
	}
	return fmt.Sprintf("[line %d] Error %s: %s", e.Token.Pos.Line, where, e.Message)
}

type functionKind int

const (
	functionNone functionKind = iota
	functionPlain
)

type resolver struct {
	binder    Binder
	scopes    []map[string]bool
	function  functionKind
	loopDepth int
	errs      []error
}

// Resolve walks stmts and reports distances to binder. All static errors
// are collected and returned joined.
func Resolve(stmts []lang.Stmt, binder Binder) error {
	r := &resolver{binder: binder}
	r.resolveStmts(stmts)
	return errors.Join(r.errs...)
}

func (r *resolver) errorf(tok lang.Token, format string, args ...interface{}) {
	r.errs = append(r.errs, &Error{Token: tok, Message: fmt.Sprintf(format, args...)})
}

func (r *resolver) resolveStmts(stmts []lang.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveStmt(stmt lang.Stmt) {
	switch s := stmt.(type) {
	case *lang.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *lang.VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *lang.FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionPlain)
	case *lang.ExpressionStmt:
		r.resolveExpr(s.Expression)
	case *lang.PrintStmt:
		r.resolveExpr(s.Expression)
	case *lang.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *lang.WhileStmt:
		r.resolveExpr(s.Condition)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--
	case *lang.ReturnStmt:
		if r.function == functionNone {
			r.errorf(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *lang.BreakStmt:
		if r.loopDepth == 0 {
			r.errorf(s.Keyword, "Can't use 'break' outside of a loop.")
		}
	}
}

func (r *resolver) resolveFunction(fn *lang.FunctionStmt, kind functionKind) {
	enclosingFunction, enclosingLoops := r.function, r.loopDepth
	r.function, r.loopDepth = kind, 0
	defer func() {
		r.function, r.loopDepth = enclosingFunction, enclosingLoops
	}()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *resolver) resolveExpr(expr lang.Expr) {
	switch e := expr.(type) {
	case *lang.Variable:
		if len(r.scopes) > 0 {
			if ready, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !ready {
				r.errorf(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *lang.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *lang.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *lang.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *lang.Ternary:
		r.resolveExpr(e.Condition)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *lang.Unary:
		r.resolveExpr(e.Right)
	case *lang.Grouping:
		r.resolveExpr(e.Expression)
	case *lang.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
	case *lang.Literal:
	}
}

// resolveLocal records the distance from the innermost scope to the one
// declaring name. Nothing is recorded for globals.
func (r *resolver) resolveLocal(expr lang.Expr, name lang.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.binder.Resolve(expr, len(r.scopes)-1-i)
			return
		}
	}
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) declare(name lang.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.errorf(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *resolver) define(name lang.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}
