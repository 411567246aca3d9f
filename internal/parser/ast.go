package parser

import "github.com/leonardinius/treelox/internal/token"

// Expr is an expression node. The set of implementations is closed.
type Expr interface {
	exprNode()
}

// Stmt is a statement node. The set of implementations is closed.
type Stmt interface {
	stmtNode()
}

type ExprAssign struct {
	Name  *token.Token
	Value Expr
}

type ExprBinary struct {
	Left     Expr
	Operator *token.Token
	Right    Expr
}

type ExprGrouping struct {
	Expression Expr
}

// ExprLiteral holds float64, string, bool or nil.
type ExprLiteral struct {
	Value any
}

type ExprLogical struct {
	Left     Expr
	Operator *token.Token
	Right    Expr
}

type ExprUnary struct {
	Operator *token.Token
	Right    Expr
}

type ExprVariable struct {
	Name *token.Token
}

func (*ExprAssign) exprNode()   {}
func (*ExprBinary) exprNode()   {}
func (*ExprGrouping) exprNode() {}
func (*ExprLiteral) exprNode()  {}
func (*ExprLogical) exprNode()  {}
func (*ExprUnary) exprNode()    {}
func (*ExprVariable) exprNode() {}

type StmtBlock struct {
	Statements []Stmt
}

type StmtExpression struct {
	Expression Expr
}

// StmtIf has a nil ElseBranch when there is no else clause.
type StmtIf struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt
}

type StmtPrint struct {
	Expression Expr
}

// StmtVar always has an Initializer; the parser fills in a nil literal when omitted.
type StmtVar struct {
	Name        *token.Token
	Initializer Expr
}

type StmtWhile struct {
	Condition Expr
	Body      Stmt
}

func (*StmtBlock) stmtNode()      {}
func (*StmtExpression) stmtNode() {}
func (*StmtIf) stmtNode()         {}
func (*StmtPrint) stmtNode()      {}
func (*StmtVar) stmtNode()        {}
func (*StmtWhile) stmtNode()      {}

var (
	_ Expr = (*ExprAssign)(nil)
	_ Expr = (*ExprBinary)(nil)
	_ Expr = (*ExprGrouping)(nil)
	_ Expr = (*ExprLiteral)(nil)
	_ Expr = (*ExprLogical)(nil)
	_ Expr = (*ExprUnary)(nil)
	_ Expr = (*ExprVariable)(nil)

	_ Stmt = (*StmtBlock)(nil)
	_ Stmt = (*StmtExpression)(nil)
	_ Stmt = (*StmtIf)(nil)
	_ Stmt = (*StmtPrint)(nil)
	_ Stmt = (*StmtVar)(nil)
	_ Stmt = (*StmtWhile)(nil)
)
