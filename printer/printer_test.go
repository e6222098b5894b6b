package printer

import (
	"testing"

	"github.com/sergev/lox/lang"
	"github.com/sergev/lox/parser"
)

func parseExpr(t *testing.T, src string) lang.Expr {
	t.Helper()
	stmts, err := parser.Parse(src + ";")
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	es, ok := stmts[0].(*lang.ExpressionStmt)
	if !ok {
		t.Fatalf("expected expression statement, got %T", stmts[0])
	}
	return es.Expression
}

func TestParenthesizeHandBuiltTree(t *testing.T) {
	expr := &lang.Binary{
		Left: &lang.Unary{
			Operator: lang.NewToken(lang.TokenMinus, "-", 1),
			Right:    &lang.Literal{Value: lang.NumberValue(123)},
		},
		Operator: lang.NewToken(lang.TokenStar, "*", 1),
		Right:    &lang.Grouping{Expression: &lang.Literal{Value: lang.NumberValue(45.67)}},
	}
	if got, want := Parenthesize(expr), "(* (- 123) (group 45.67))"; got != want {
		t.Fatalf("Parenthesize => %q, want %q", got, want)
	}
}

func TestPrinters(t *testing.T) {
	tests := []struct {
		src     string
		parens  string
		postfix string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))", "1 2 3 * +"},
		{"(1 + 2) * -3", "(* (group (+ 1 2)) (- 3))", "1 2 + 0 3 - *"},
		{"!ok", "(! ok)", "ok !"},
		{`a or "b"`, `(or a "b")`, `a "b" or`},
		{"c ? 1 : nil", "(?: c 1 nil)", "c 1 nil ?:"},
		{"x = y = 2", "(= x (= y 2))", "2 y = x ="},
		{"f(1, g())", "(call f 1 (call g))", "1 g call/0 f call/2"},
		{"true == false", "(== true false)", "true false =="},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr := parseExpr(t, tt.src)
			if got := Parenthesize(expr); got != tt.parens {
				t.Errorf("Parenthesize => %q, want %q", got, tt.parens)
			}
			if got := Postfix(expr); got != tt.postfix {
				t.Errorf("Postfix => %q, want %q", got, tt.postfix)
			}
		})
	}
}

func TestProgram(t *testing.T) {
	stmts, err := parser.Parse(`
var a = 1;
fun f(x, y) { if (x) return y; else return; }
while (a) { print a; break; }
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := "(var a 1)\n" +
		"(fun f (x y) (if x (return y) (return)))\n" +
		"(while a (block (print a) (break)))"
	if got := Program(stmts); got != want {
		t.Fatalf("Program =>\n%s\nwant\n%s", got, want)
	}
}
