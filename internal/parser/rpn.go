package parser

import (
	"fmt"
	"strings"

	"github.com/leonardinius/treelox/internal/token"
)

// RPNPrinter renders expressions in reverse polish notation.
// Unary minus is written as ~ to tell it apart from subtraction.
type RPNPrinter struct{}

func NewRPNPrinter() *RPNPrinter {
	return &RPNPrinter{}
}

func (p *RPNPrinter) Print(expr Expr) string {
	switch e := expr.(type) {
	case *ExprAssign:
		return p.reverse("="+e.Name.Lexeme, e.Value)
	case *ExprBinary:
		return p.reverse(e.Operator.Lexeme, e.Left, e.Right)
	case *ExprGrouping:
		return p.reverse("", e.Expression)
	case *ExprLiteral:
		return literalString(e.Value)
	case *ExprLogical:
		return p.reverse(e.Operator.Lexeme, e.Left, e.Right)
	case *ExprUnary:
		operator := e.Operator.Lexeme
		if e.Operator.Type == token.MINUS {
			operator = "~"
		}
		return p.reverse(operator, e.Right)
	case *ExprVariable:
		return e.Name.Lexeme
	case nil:
		return "<nil>"
	}

	panic(fmt.Sprintf("unexpected expression %T", expr))
}

func (p *RPNPrinter) reverse(name string, exprs ...Expr) string {
	out := new(strings.Builder)
	for _, expr := range exprs {
		_, _ = out.WriteString(p.Print(expr))
		_, _ = out.WriteString(" ")
	}
	_, _ = out.WriteString(name)
	return strings.TrimSuffix(out.String(), " ")
}
