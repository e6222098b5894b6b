package lang

// Expr represents an expression node. The set of implementations is
// closed; consumers dispatch with a type switch. Nodes are compared by
// pointer identity, which is what keys the resolver's distance table.
type Expr interface {
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	stmtNode()
}

// Literal yields a constant value.
type Literal struct {
	Value Value
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Expression Expr
}

// Unary is prefix operator application (`!` or `-`).
type Unary struct {
	Operator Token
	Right    Expr
}

// Binary is infix arithmetic, comparison or equality.
type Binary struct {
	Left     Expr
	Operator Token
	Right    Expr
}

// Logical is a short-circuiting `and` / `or`.
type Logical struct {
	Left     Expr
	Operator Token
	Right    Expr
}

// Ternary is `cond ? then : else`.
type Ternary struct {
	Condition Expr
	Then      Expr
	Else      Expr
}

// Variable reads a binding.
type Variable struct {
	Name Token
}

// Assign writes an existing binding and yields the assigned value.
type Assign struct {
	Name  Token
	Value Expr
}

// Call invokes Callee; Paren is the closing parenthesis, kept for error
// reporting.
type Call struct {
	Callee    Expr
	Paren     Token
	Arguments []Expr
}

func (*Literal) exprNode()  {}
func (*Grouping) exprNode() {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Logical) exprNode()  {}
func (*Ternary) exprNode()  {}
func (*Variable) exprNode() {}
func (*Assign) exprNode()   {}
func (*Call) exprNode()     {}

// ExpressionStmt evaluates an expression for side-effects.
type ExpressionStmt struct {
	Expression Expr
}

// PrintStmt writes the display string of an expression.
type PrintStmt struct {
	Expression Expr
}

// VarStmt declares a binding in the current frame.
type VarStmt struct {
	Name        Token
	Initializer Expr // may be nil
}

// BlockStmt runs its statements in a fresh frame.
type BlockStmt struct {
	Statements []Stmt
}

// IfStmt conditionally executes a branch.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // may be nil
}

// WhileStmt repeats Body while Condition is truthy.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

// FunctionStmt declares a named function.
type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

// ReturnStmt exits the enclosing function.
type ReturnStmt struct {
	Keyword Token
	Value   Expr // may be nil
}

// BreakStmt exits the enclosing loop.
type BreakStmt struct {
	Keyword Token
}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*FunctionStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
func (*BreakStmt) stmtNode()      {}
