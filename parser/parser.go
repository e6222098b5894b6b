package parser

import (
	"fmt"

	"github.com/sergev/lox/lang"
)

const maxArgs = 255

// Parse translates source text into a list of statements.
func Parse(src string) ([]lang.Stmt, error) {
	p := &parser{
		lx: newLexer(src),
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseProgram()
}

type parser struct {
	lx   *lexer
	curr lang.Token
}

func (p *parser) advance() error {
	tok, err := p.lx.nextToken()
	if err != nil {
		return err
	}
	p.curr = tok
	return nil
}

func (p *parser) check(tt lang.TokenType) bool {
	return p.curr.Type == tt
}

// accept consumes the current token if it has type tt.
func (p *parser) accept(tt lang.TokenType) (bool, error) {
	if !p.check(tt) {
		return false, nil
	}
	return true, p.advance()
}

func (p *parser) expect(tt lang.TokenType, context string) (lang.Token, error) {
	if p.curr.Type != tt {
		return lang.Token{}, p.errorf(p.curr, "expected %s %s, found %s", tt, context, describe(p.curr))
	}
	tok := p.curr
	if err := p.advance(); err != nil {
		return lang.Token{}, err
	}
	return tok, nil
}

func (p *parser) parseProgram() ([]lang.Stmt, error) {
	var stmts []lang.Stmt
	for !p.check(lang.TokenEOF) {
		stmt, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *parser) parseDeclaration() (lang.Stmt, error) {
	switch p.curr.Type {
	case lang.TokenFun:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseFunction()
	case lang.TokenVar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseVarDecl()
	default:
		return p.parseStatement()
	}
}

func (p *parser) parseFunction() (lang.Stmt, error) {
	name, err := p.expect(lang.TokenIdentifier, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TokenLeftParen, "after function name"); err != nil {
		return nil, err
	}
	var params []lang.Token
	if !p.check(lang.TokenRightParen) {
		for {
			if len(params) >= maxArgs {
				return nil, p.errorf(p.curr, "can't have more than %d parameters", maxArgs)
			}
			param, err := p.expect(lang.TokenIdentifier, "parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			ok, err := p.accept(lang.TokenComma)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
		}
	}
	if _, err := p.expect(lang.TokenRightParen, "after parameters"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TokenLeftBrace, "before function body"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &lang.FunctionStmt{
		Name:   name,
		Params: params,
		Body:   body,
	}, nil
}

func (p *parser) parseVarDecl() (lang.Stmt, error) {
	name, err := p.expect(lang.TokenIdentifier, "variable name")
	if err != nil {
		return nil, err
	}
	var init lang.Expr
	ok, err := p.accept(lang.TokenEqual)
	if err != nil {
		return nil, err
	}
	if ok {
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lang.TokenSemicolon, "after variable declaration"); err != nil {
		return nil, err
	}
	return &lang.VarStmt{
		Name:        name,
		Initializer: init,
	}, nil
}

func (p *parser) parseStatement() (lang.Stmt, error) {
	switch p.curr.Type {
	case lang.TokenPrint:
		return p.parsePrintStmt()
	case lang.TokenLeftBrace:
		if err := p.advance(); err != nil {
			return nil, err
		}
		stmts, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		return &lang.BlockStmt{Statements: stmts}, nil
	case lang.TokenIf:
		return p.parseIfStmt()
	case lang.TokenWhile:
		return p.parseWhileStmt()
	case lang.TokenFor:
		return p.parseForStmt()
	case lang.TokenReturn:
		return p.parseReturnStmt()
	case lang.TokenBreak:
		return p.parseBreakStmt()
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lang.TokenSemicolon, "after expression"); err != nil {
			return nil, err
		}
		return &lang.ExpressionStmt{Expression: expr}, nil
	}
}

// parseBlockBody parses statements up to and including the closing brace;
// the opening brace has already been consumed.
func (p *parser) parseBlockBody() ([]lang.Stmt, error) {
	var stmts []lang.Stmt
	for !p.check(lang.TokenRightBrace) && !p.check(lang.TokenEOF) {
		stmt, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(lang.TokenRightBrace, "after block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) parsePrintStmt() (lang.Stmt, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TokenSemicolon, "after value"); err != nil {
		return nil, err
	}
	return &lang.PrintStmt{Expression: expr}, nil
}

func (p *parser) parseCondition(keyword string) (lang.Expr, error) {
	if _, err := p.expect(lang.TokenLeftParen, "after '"+keyword+"'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TokenRightParen, "after condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *parser) parseIfStmt() (lang.Stmt, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}
	thenBranch, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseBranch lang.Stmt
	ok, err := p.accept(lang.TokenElse)
	if err != nil {
		return nil, err
	}
	if ok {
		elseBranch, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &lang.IfStmt{
		Condition: cond,
		Then:      thenBranch,
		Else:      elseBranch,
	}, nil
}

func (p *parser) parseWhileStmt() (lang.Stmt, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &lang.WhileStmt{
		Condition: cond,
		Body:      body,
	}, nil
}

// parseForStmt desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr; } }`.
func (p *parser) parseForStmt() (lang.Stmt, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TokenLeftParen, "after 'for'"); err != nil {
		return nil, err
	}

	var init lang.Stmt
	var err error
	switch p.curr.Type {
	case lang.TokenSemicolon:
		if err := p.advance(); err != nil {
			return nil, err
		}
	case lang.TokenVar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		init, err = p.parseVarDecl()
	default:
		var expr lang.Expr
		expr, err = p.parseExpression()
		if err == nil {
			_, err = p.expect(lang.TokenSemicolon, "after loop initializer")
		}
		init = &lang.ExpressionStmt{Expression: expr}
	}
	if err != nil {
		return nil, err
	}

	var cond lang.Expr
	if !p.check(lang.TokenSemicolon) {
		if cond, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lang.TokenSemicolon, "after loop condition"); err != nil {
		return nil, err
	}

	var incr lang.Expr
	if !p.check(lang.TokenRightParen) {
		if incr, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lang.TokenRightParen, "after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if incr != nil {
		body = &lang.BlockStmt{Statements: []lang.Stmt{
			body,
			&lang.ExpressionStmt{Expression: incr},
		}}
	}
	if cond == nil {
		cond = &lang.Literal{Value: lang.BoolValue(true)}
	}
	var loop lang.Stmt = &lang.WhileStmt{Condition: cond, Body: body}
	if init != nil {
		loop = &lang.BlockStmt{Statements: []lang.Stmt{init, loop}}
	}
	return loop, nil
}

func (p *parser) parseReturnStmt() (lang.Stmt, error) {
	keyword := p.curr
	if err := p.advance(); err != nil {
		return nil, err
	}
	var value lang.Expr
	if !p.check(lang.TokenSemicolon) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		value = expr
	}
	if _, err := p.expect(lang.TokenSemicolon, "after return value"); err != nil {
		return nil, err
	}
	return &lang.ReturnStmt{
		Keyword: keyword,
		Value:   value,
	}, nil
}

func (p *parser) parseBreakStmt() (lang.Stmt, error) {
	keyword := p.curr
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TokenSemicolon, "after 'break'"); err != nil {
		return nil, err
	}
	return &lang.BreakStmt{Keyword: keyword}, nil
}

func (p *parser) parseExpression() (lang.Expr, error) {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() (lang.Expr, error) {
	expr, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if !p.check(lang.TokenEqual) {
		return expr, nil
	}
	equals := p.curr
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if v, ok := expr.(*lang.Variable); ok {
		return &lang.Assign{Name: v.Name, Value: value}, nil
	}
	return nil, p.errorf(equals, "invalid assignment target")
}

func (p *parser) parseTernary() (lang.Expr, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.check(lang.TokenQuestion) {
		return cond, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	thenBranch, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TokenColon, "in conditional expression"); err != nil {
		return nil, err
	}
	elseBranch, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &lang.Ternary{
		Condition: cond,
		Then:      thenBranch,
		Else:      elseBranch,
	}, nil
}

func (p *parser) parseOr() (lang.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(lang.TokenOr) {
		op := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &lang.Logical{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (lang.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(lang.TokenAnd) {
		op := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &lang.Logical{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

// parseBinary parses a left-associative chain of next-level operands
// joined by any of ops.
func (p *parser) parseBinary(next func() (lang.Expr, error), ops ...lang.TokenType) (lang.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.checkAny(ops...) {
		op := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &lang.Binary{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *parser) checkAny(ops ...lang.TokenType) bool {
	for _, tt := range ops {
		if p.curr.Type == tt {
			return true
		}
	}
	return false
}

func (p *parser) parseEquality() (lang.Expr, error) {
	return p.parseBinary(p.parseComparison, lang.TokenBangEqual, lang.TokenEqualEqual)
}

func (p *parser) parseComparison() (lang.Expr, error) {
	return p.parseBinary(p.parseTerm, lang.TokenGreater, lang.TokenGreaterEqual, lang.TokenLess, lang.TokenLessEqual)
}

func (p *parser) parseTerm() (lang.Expr, error) {
	return p.parseBinary(p.parseFactor, lang.TokenMinus, lang.TokenPlus)
}

func (p *parser) parseFactor() (lang.Expr, error) {
	return p.parseBinary(p.parseUnary, lang.TokenSlash, lang.TokenStar)
}

func (p *parser) parseUnary() (lang.Expr, error) {
	if p.check(lang.TokenBang) || p.check(lang.TokenMinus) {
		op := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &lang.Unary{Operator: op, Right: right}, nil
	}
	return p.parseCall()
}

func (p *parser) parseCall() (lang.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.check(lang.TokenLeftParen) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		paren, err := p.expect(lang.TokenRightParen, "after arguments")
		if err != nil {
			return nil, err
		}
		expr = &lang.Call{Callee: expr, Paren: paren, Arguments: args}
	}
	return expr, nil
}

func (p *parser) parseArguments() ([]lang.Expr, error) {
	var args []lang.Expr
	if p.check(lang.TokenRightParen) {
		return args, nil
	}
	for {
		if len(args) >= maxArgs {
			return nil, p.errorf(p.curr, "can't have more than %d arguments", maxArgs)
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
		ok, err := p.accept(lang.TokenComma)
		if err != nil {
			return nil, err
		}
		if !ok {
			return args, nil
		}
	}
}

func (p *parser) parsePrimary() (lang.Expr, error) {
	tok := p.curr
	switch tok.Type {
	case lang.TokenFalse:
		return p.literal(lang.BoolValue(false))
	case lang.TokenTrue:
		return p.literal(lang.BoolValue(true))
	case lang.TokenNil:
		return p.literal(lang.Nil)
	case lang.TokenNumber, lang.TokenString:
		return p.literal(tok.Literal)
	case lang.TokenIdentifier:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &lang.Variable{Name: tok}, nil
	case lang.TokenLeftParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lang.TokenRightParen, "after expression"); err != nil {
			return nil, err
		}
		return &lang.Grouping{Expression: expr}, nil
	default:
		return nil, p.errorf(tok, "expected expression, found %s", describe(tok))
	}
}

func (p *parser) literal(val lang.Value) (lang.Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &lang.Literal{Value: val}, nil
}

// errorf reports a syntax error at tok. Errors at end of input are marked
// incomplete so an interactive reader can ask for more lines.
func (p *parser) errorf(tok lang.Token, format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	if tok.Type == lang.TokenEOF {
		return newIncompleteError(tok.Pos, err)
	}
	return newError(tok.Pos, err)
}

func describe(tok lang.Token) string {
	switch tok.Type {
	case lang.TokenEOF:
		return "end of input"
	case lang.TokenIdentifier, lang.TokenNumber, lang.TokenString:
		return fmt.Sprintf("%s %q", tok.Type, tok.Lexeme)
	default:
		return fmt.Sprintf("'%s'", tok.Lexeme)
	}
}
