// Package printer renders syntax trees as text for debugging.
package printer

import (
	"fmt"
	"strings"

	"github.com/sergev/lox/lang"
)

// Parenthesize renders expr in Lisp-like prefix form, e.g.
// `(* (- 123) (group 45.67))`.
func Parenthesize(expr lang.Expr) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

// Statement renders stmt in the same prefix form as Parenthesize.
func Statement(stmt lang.Stmt) string {
	var b strings.Builder
	writeStmt(&b, stmt)
	return b.String()
}

// Program renders one statement per line.
func Program(stmts []lang.Stmt) string {
	lines := make([]string, len(stmts))
	for i, stmt := range stmts {
		lines[i] = Statement(stmt)
	}
	return strings.Join(lines, "\n")
}

func literal(v lang.Value) string {
	if v.Type == lang.TypeString {
		return fmt.Sprintf("%q", v.Str())
	}
	return v.String()
}

func writeExpr(b *strings.Builder, expr lang.Expr) {
	switch e := expr.(type) {
	case *lang.Literal:
		b.WriteString(literal(e.Value))
	case *lang.Grouping:
		parens(b, "group", e.Expression)
	case *lang.Unary:
		parens(b, e.Operator.Lexeme, e.Right)
	case *lang.Binary:
		parens(b, e.Operator.Lexeme, e.Left, e.Right)
	case *lang.Logical:
		parens(b, e.Operator.Lexeme, e.Left, e.Right)
	case *lang.Ternary:
		parens(b, "?:", e.Condition, e.Then, e.Else)
	case *lang.Variable:
		b.WriteString(e.Name.Lexeme)
	case *lang.Assign:
		b.WriteString("(= ")
		b.WriteString(e.Name.Lexeme)
		b.WriteString(" ")
		writeExpr(b, e.Value)
		b.WriteString(")")
	case *lang.Call:
		parens(b, "call", append([]lang.Expr{e.Callee}, e.Arguments...)...)
	case nil:
		b.WriteString("nil")
	default:
		fmt.Fprintf(b, "<%T>", expr)
	}
}

func parens(b *strings.Builder, name string, exprs ...lang.Expr) {
	b.WriteString("(")
	b.WriteString(name)
	for _, expr := range exprs {
		b.WriteString(" ")
		writeExpr(b, expr)
	}
	b.WriteString(")")
}

func writeStmt(b *strings.Builder, stmt lang.Stmt) {
	switch s := stmt.(type) {
	case *lang.ExpressionStmt:
		writeExpr(b, s.Expression)
	case *lang.PrintStmt:
		parens(b, "print", s.Expression)
	case *lang.VarStmt:
		b.WriteString("(var ")
		b.WriteString(s.Name.Lexeme)
		if s.Initializer != nil {
			b.WriteString(" ")
			writeExpr(b, s.Initializer)
		}
		b.WriteString(")")
	case *lang.BlockStmt:
		b.WriteString("(block")
		writeStmts(b, s.Statements)
		b.WriteString(")")
	case *lang.IfStmt:
		b.WriteString("(if ")
		writeExpr(b, s.Condition)
		b.WriteString(" ")
		writeStmt(b, s.Then)
		if s.Else != nil {
			b.WriteString(" ")
			writeStmt(b, s.Else)
		}
		b.WriteString(")")
	case *lang.WhileStmt:
		b.WriteString("(while ")
		writeExpr(b, s.Condition)
		b.WriteString(" ")
		writeStmt(b, s.Body)
		b.WriteString(")")
	case *lang.FunctionStmt:
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Lexeme
		}
		fmt.Fprintf(b, "(fun %s (%s)", s.Name.Lexeme, strings.Join(params, " "))
		writeStmts(b, s.Body)
		b.WriteString(")")
	case *lang.ReturnStmt:
		if s.Value == nil {
			b.WriteString("(return)")
			return
		}
		parens(b, "return", s.Value)
	case *lang.BreakStmt:
		b.WriteString("(break)")
	default:
		fmt.Fprintf(b, "<%T>", stmt)
	}
}

func writeStmts(b *strings.Builder, stmts []lang.Stmt) {
	for _, stmt := range stmts {
		b.WriteString(" ")
		writeStmt(b, stmt)
	}
}
