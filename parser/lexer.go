package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergev/lox/lang"
)

type lexer struct {
	src    string
	pos    int
	line   int
	column int
}

func newLexer(src string) *lexer {
	return &lexer{
		src:    src,
		line:   1,
		column: 1,
	}
}

type runeState struct {
	pos    int
	line   int
	column int
}

func (lx *lexer) mark() runeState {
	return runeState{
		pos:    lx.pos,
		line:   lx.line,
		column: lx.column,
	}
}

func (lx *lexer) restore(state runeState) {
	lx.pos = state.pos
	lx.line = state.line
	lx.column = state.column
}

func (lx *lexer) readRune() (rune, runeState, error) {
	state := lx.mark()
	if lx.pos >= len(lx.src) {
		return 0, state, io.EOF
	}
	r, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	if r == utf8.RuneError && w == 1 {
		return 0, state, newError(positionFromState(state), fmt.Errorf("invalid UTF-8 encoding at byte %d", lx.pos))
	}
	lx.pos += w
	if r == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return r, state, nil
}

func (lx *lexer) match(expected rune) bool {
	state := lx.mark()
	r, _, err := lx.readRune()
	if err != nil {
		return false
	}
	if r != expected {
		lx.restore(state)
		return false
	}
	return true
}

func (lx *lexer) skipWhitespace() error {
	for {
		r, state, err := lx.readRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '/':
			if lx.match('/') {
				lx.skipLine()
				continue
			}
			if lx.match('*') {
				if err := lx.skipBlockComment(state); err != nil {
					return err
				}
				continue
			}
			lx.restore(state)
			return nil
		default:
			lx.restore(state)
			return nil
		}
	}
}

func (lx *lexer) skipLine() {
	for {
		r, _, err := lx.readRune()
		if err != nil || r == '\n' {
			return
		}
	}
}

func (lx *lexer) skipBlockComment(start runeState) error {
	for {
		r, _, err := lx.readRune()
		if err == io.EOF {
			return newIncompleteError(positionFromState(start), fmt.Errorf("unterminated block comment"))
		}
		if err != nil {
			return err
		}
		if r == '*' && lx.match('/') {
			return nil
		}
	}
}

func (lx *lexer) nextToken() (lang.Token, error) {
	if err := lx.skipWhitespace(); err != nil {
		return lang.Token{}, err
	}

	start := lx.mark()
	r, _, err := lx.readRune()
	if err == io.EOF {
		return lang.Token{Type: lang.TokenEOF, Pos: positionFromState(start)}, nil
	}
	if err != nil {
		return lang.Token{}, err
	}

	switch {
	case isIdentifierStart(r):
		return lx.scanIdentifier(start), nil
	case isDigit(r):
		return lx.scanNumber(start)
	case r == '"':
		return lx.scanString(start)
	}

	var tt lang.TokenType
	switch r {
	case '(':
		tt = lang.TokenLeftParen
	case ')':
		tt = lang.TokenRightParen
	case '{':
		tt = lang.TokenLeftBrace
	case '}':
		tt = lang.TokenRightBrace
	case ',':
		tt = lang.TokenComma
	case '.':
		tt = lang.TokenDot
	case '-':
		tt = lang.TokenMinus
	case '+':
		tt = lang.TokenPlus
	case ';':
		tt = lang.TokenSemicolon
	case '*':
		tt = lang.TokenStar
	case '/':
		tt = lang.TokenSlash
	case '?':
		tt = lang.TokenQuestion
	case ':':
		tt = lang.TokenColon
	case '!':
		tt = lx.either('=', lang.TokenBangEqual, lang.TokenBang)
	case '=':
		tt = lx.either('=', lang.TokenEqualEqual, lang.TokenEqual)
	case '<':
		tt = lx.either('=', lang.TokenLessEqual, lang.TokenLess)
	case '>':
		tt = lx.either('=', lang.TokenGreaterEqual, lang.TokenGreater)
	default:
		return lang.Token{
			Type:   lang.TokenIllegal,
			Lexeme: string(r),
			Pos:    positionFromState(start),
		}, newError(positionFromState(start), fmt.Errorf("unexpected character %q", r))
	}
	return lx.token(tt, start), nil
}

func (lx *lexer) either(next rune, matched, otherwise lang.TokenType) lang.TokenType {
	if lx.match(next) {
		return matched
	}
	return otherwise
}

func (lx *lexer) token(tt lang.TokenType, start runeState) lang.Token {
	return lang.Token{
		Type:   tt,
		Lexeme: lx.src[start.pos:lx.pos],
		Pos:    positionFromState(start),
	}
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (lx *lexer) scanIdentifier(start runeState) lang.Token {
	for {
		r, state, err := lx.readRune()
		if err != nil {
			break
		}
		if !isIdentifierPart(r) {
			lx.restore(state)
			break
		}
	}
	tok := lx.token(lang.TokenIdentifier, start)
	if tt, ok := lang.LookupKeyword(tok.Lexeme); ok {
		tok.Type = tt
	}
	return tok
}

func (lx *lexer) scanDigits() {
	for {
		r, state, err := lx.readRune()
		if err != nil {
			return
		}
		if !isDigit(r) {
			lx.restore(state)
			return
		}
	}
}

// scanNumber accepts digits with an optional fractional part. A trailing
// dot without digits is left for the next token.
func (lx *lexer) scanNumber(start runeState) (lang.Token, error) {
	lx.scanDigits()
	beforeDot := lx.mark()
	if lx.match('.') {
		r, _, err := lx.readRune()
		if err == nil && isDigit(r) {
			lx.scanDigits()
		} else {
			lx.restore(beforeDot)
		}
	}
	tok := lx.token(lang.TokenNumber, start)
	f, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		return lang.Token{}, newError(tok.Pos, fmt.Errorf("invalid number %q: %w", tok.Lexeme, err))
	}
	tok.Literal = lang.NumberValue(f)
	return tok, nil
}

// scanString reads a double-quoted string. Strings may span lines and
// have no escape sequences.
func (lx *lexer) scanString(start runeState) (lang.Token, error) {
	var builder strings.Builder
	for {
		r, _, err := lx.readRune()
		if err == io.EOF {
			return lang.Token{}, newIncompleteError(positionFromState(start), fmt.Errorf("unterminated string literal"))
		}
		if err != nil {
			return lang.Token{}, err
		}
		if r == '"' {
			break
		}
		builder.WriteRune(r)
	}
	tok := lx.token(lang.TokenString, start)
	tok.Literal = lang.StringValue(builder.String())
	return tok, nil
}

func positionFromState(state runeState) lang.Position {
	return lang.Position{
		Offset: state.pos,
		Line:   state.line,
		Column: state.column,
	}
}

// Scan splits src into tokens, ending with an EOF token.
func Scan(src string) ([]lang.Token, error) {
	lx := newLexer(src)
	var toks []lang.Token
	for {
		tok, err := lx.nextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == lang.TokenEOF {
			return toks, nil
		}
	}
}
