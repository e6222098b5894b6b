package lang

// TokenType enumerates lexical categories recognised by the scanner.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	// Single-character tokens.
	TokenLeftParen
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenComma
	TokenDot
	TokenMinus
	TokenPlus
	TokenSemicolon
	TokenSlash
	TokenStar
	TokenQuestion
	TokenColon

	// One or two character tokens.
	TokenBang
	TokenBangEqual
	TokenEqual
	TokenEqualEqual
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual

	// Literals.
	TokenIdentifier
	TokenString
	TokenNumber

	// Keywords.
	TokenAnd
	TokenBreak
	TokenElse
	TokenFalse
	TokenFor
	TokenFun
	TokenIf
	TokenNil
	TokenOr
	TokenPrint
	TokenReturn
	TokenTrue
	TokenVar
	TokenWhile
)

var tokenNames = [...]string{
	TokenEOF:          "EOF",
	TokenIllegal:      "illegal",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenMinus:        "-",
	TokenPlus:         "+",
	TokenSemicolon:    ";",
	TokenSlash:        "/",
	TokenStar:         "*",
	TokenQuestion:     "?",
	TokenColon:        ":",
	TokenBang:         "!",
	TokenBangEqual:    "!=",
	TokenEqual:        "=",
	TokenEqualEqual:   "==",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
	TokenIdentifier:   "identifier",
	TokenString:       "string",
	TokenNumber:       "number",
	TokenAnd:          "and",
	TokenBreak:        "break",
	TokenElse:         "else",
	TokenFalse:        "false",
	TokenFor:          "for",
	TokenFun:          "fun",
	TokenIf:           "if",
	TokenNil:          "nil",
	TokenOr:           "or",
	TokenPrint:        "print",
	TokenReturn:       "return",
	TokenTrue:         "true",
	TokenVar:          "var",
	TokenWhile:        "while",
}

func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenNames) && tokenNames[tt] != "" {
		return tokenNames[tt]
	}
	return "unknown"
}

var keywords = map[string]TokenType{
	"and":    TokenAnd,
	"break":  TokenBreak,
	"else":   TokenElse,
	"false":  TokenFalse,
	"for":    TokenFor,
	"fun":    TokenFun,
	"if":     TokenIf,
	"nil":    TokenNil,
	"or":     TokenOr,
	"print":  TokenPrint,
	"return": TokenReturn,
	"true":   TokenTrue,
	"var":    TokenVar,
	"while":  TokenWhile,
}

// LookupKeyword reports the keyword token type for ident, if any.
func LookupKeyword(ident string) (TokenType, bool) {
	tt, ok := keywords[ident]
	return tt, ok
}

// Position tracks a source location.
type Position struct {
	Offset int // zero-based byte offset
	Line   int // one-based line number
	Column int // one-based column number (rune count)
}

// Token is a single lexical unit produced by the scanner.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal Value // decoded literal for numbers and strings
	Pos     Position
}

// NewToken builds a token without a literal, mostly useful when
// constructing syntax trees by hand.
func NewToken(tt TokenType, lexeme string, line int) Token {
	return Token{
		Type:   tt,
		Lexeme: lexeme,
		Pos:    Position{Line: line, Column: 1},
	}
}

func (t Token) String() string {
	if t.Lexeme != "" {
		return t.Lexeme
	}
	return t.Type.String()
}
