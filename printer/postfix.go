package printer

import (
	"fmt"
	"strings"

	"github.com/sergev/lox/lang"
)

// Postfix renders expr in reverse Polish notation: `(1 + 2) * -3` becomes
// `1 2 + 0 3 - *`. Negation is written as subtraction from zero and
// grouping disappears.
func Postfix(expr lang.Expr) string {
	var words []string
	postfix(&words, expr)
	return strings.Join(words, " ")
}

func postfix(words *[]string, expr lang.Expr) {
	switch e := expr.(type) {
	case *lang.Literal:
		*words = append(*words, literal(e.Value))
	case *lang.Grouping:
		postfix(words, e.Expression)
	case *lang.Unary:
		if e.Operator.Type == lang.TokenMinus {
			*words = append(*words, "0")
		}
		postfix(words, e.Right)
		*words = append(*words, e.Operator.Lexeme)
	case *lang.Binary:
		postfix(words, e.Left)
		postfix(words, e.Right)
		*words = append(*words, e.Operator.Lexeme)
	case *lang.Logical:
		postfix(words, e.Left)
		postfix(words, e.Right)
		*words = append(*words, e.Operator.Lexeme)
	case *lang.Ternary:
		postfix(words, e.Condition)
		postfix(words, e.Then)
		postfix(words, e.Else)
		*words = append(*words, "?:")
	case *lang.Variable:
		*words = append(*words, e.Name.Lexeme)
	case *lang.Assign:
		postfix(words, e.Value)
		*words = append(*words, e.Name.Lexeme, "=")
	case *lang.Call:
		for _, arg := range e.Arguments {
			postfix(words, arg)
		}
		postfix(words, e.Callee)
		*words = append(*words, fmt.Sprintf("call/%d", len(e.Arguments)))
	default:
		*words = append(*words, fmt.Sprintf("<%T>", expr))
	}
}
