package parser

import (
	"fmt"
	"strings"
)

// AstPrinter renders nodes in a fully parenthesized prefix form,
// e.g. (* (- 123) (group 45.67)).
type AstPrinter struct{}

func NewAstPrinter() *AstPrinter {
	return &AstPrinter{}
}

// Print renders an expression.
func (p *AstPrinter) Print(expr Expr) string {
	switch e := expr.(type) {
	case *ExprAssign:
		return p.parenthesize("= "+e.Name.Lexeme, e.Value)
	case *ExprBinary:
		return p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *ExprGrouping:
		return p.parenthesize("group", e.Expression)
	case *ExprLiteral:
		return literalString(e.Value)
	case *ExprLogical:
		return p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *ExprUnary:
		return p.parenthesize(e.Operator.Lexeme, e.Right)
	case *ExprVariable:
		return e.Name.Lexeme
	case nil:
		return "<nil>"
	}

	panic(fmt.Sprintf("unexpected expression %T", expr))
}

// PrintStmt renders a statement.
func (p *AstPrinter) PrintStmt(stmt Stmt) string {
	switch s := stmt.(type) {
	case *StmtBlock:
		out := new(strings.Builder)
		_, _ = out.WriteString("(block")
		for _, inner := range s.Statements {
			_, _ = out.WriteString(" ")
			_, _ = out.WriteString(p.PrintStmt(inner))
		}
		_, _ = out.WriteString(")")
		return out.String()
	case *StmtExpression:
		return p.parenthesize(";", s.Expression)
	case *StmtIf:
		if s.ElseBranch == nil {
			return "(if " + p.Print(s.Condition) + " " + p.PrintStmt(s.ThenBranch) + ")"
		}
		return "(if " + p.Print(s.Condition) + " " + p.PrintStmt(s.ThenBranch) + " " + p.PrintStmt(s.ElseBranch) + ")"
	case *StmtPrint:
		return p.parenthesize("print", s.Expression)
	case *StmtVar:
		return p.parenthesize("var "+s.Name.Lexeme, s.Initializer)
	case *StmtWhile:
		return "(while " + p.Print(s.Condition) + " " + p.PrintStmt(s.Body) + ")"
	case nil:
		return "<nil>"
	}

	panic(fmt.Sprintf("unexpected statement %T", stmt))
}

func (p *AstPrinter) parenthesize(name string, exprs ...Expr) string {
	out := new(strings.Builder)
	_, _ = out.WriteString("(")
	_, _ = out.WriteString(name)
	for _, expr := range exprs {
		_, _ = out.WriteString(" ")
		_, _ = out.WriteString(p.Print(expr))
	}
	_, _ = out.WriteString(")")
	return out.String()
}

func literalString(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%v", v)
}
