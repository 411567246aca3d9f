package parser

import (
	"errors"
	"fmt"

	"github.com/leonardinius/treelox/internal/loxerrors"
	"github.com/leonardinius/treelox/internal/token"
)

type Parser interface {
	// Parse returns the program statements.
	// When any syntax error was found, the statements are nil and the error
	// wraps loxerrors.ErrParseError together with every individual error.
	Parse() ([]Stmt, error)
}

type parser struct {
	tokens   []token.Token
	current  int
	reporter loxerrors.ErrReporter
	errs     []error
}

// NewParser returns a parser over tokens, which must end with EOF.
// Syntax errors are forwarded to reporter as they are found; reporter may be nil.
func NewParser(tokens []token.Token, reporter loxerrors.ErrReporter) Parser {
	if len(tokens) == 0 {
		panic("tokens cannot be empty")
	}
	if tokens[len(tokens)-1].Type != token.EOF {
		panic("tokens must end with EOF")
	}

	return &parser{
		tokens:   tokens,
		reporter: reporter,
	}
}

// GoString implements fmt.GoStringer.
func (p *parser) GoString() string {
	return fmt.Sprintf("parser{tokens: %#v, current: %d, errs: %#v}", p.tokens, p.current, p.errs)
}

// String implements fmt.Stringer.
func (p *parser) String() string {
	return fmt.Sprintf("parser{tokens: %d, errs: %d}", len(p.tokens), len(p.errs))
}

// Parse implements Parser.
func (p *parser) Parse() ([]Stmt, error) {
	var statements []Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}

	if len(p.errs) > 0 {
		// never hand out a partially parsed program
		return nil, errors.Join(append([]error{loxerrors.ErrParseError}, p.errs...)...)
	}

	return statements, nil
}

// declaration parses one declaration and recovers from a syntax error by
// synchronizing to the next statement boundary. It returns nil after an error.
func (p *parser) declaration() Stmt {
	var stmt Stmt
	var err error
	if p.match(token.VAR) {
		stmt, err = p.varDeclaration()
	} else {
		stmt, err = p.statement()
	}

	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *parser) varDeclaration() (Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, loxerrors.ErrParseUnexpectedVariableName)
	if err != nil {
		return nil, err
	}

	var initializer Expr = &ExprLiteral{Value: nil}
	if p.match(token.EQUAL) {
		if initializer, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err = p.consume(token.SEMICOLON, loxerrors.ErrParseExpectedSemicolonTokenAfterVar); err != nil {
		return nil, err
	}

	return &StmtVar{Name: name, Initializer: initializer}, nil
}

func (p *parser) statement() (Stmt, error) {
	switch {
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LEFT_BRACE):
		block, err := p.blockStatement()
		if err != nil {
			return nil, err
		}
		return &StmtBlock{Statements: block}, nil
	}

	return p.expressionStatement()
}

func (p *parser) ifStatement() (Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, loxerrors.ErrParseExpectedLeftParentIfToken); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err = p.consume(token.RIGHT_PAREN, loxerrors.ErrParseExpectedRightParentIfToken); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}

	var elseBranch Stmt
	if p.match(token.ELSE) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}

	return &StmtIf{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
}

// forStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
func (p *parser) forStatement() (Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, loxerrors.ErrParseExpectedLeftParentForToken); err != nil {
		return nil, err
	}

	var initializer Stmt
	var err error
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.VAR):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition Expr
	if !p.check(token.SEMICOLON) {
		if condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err = p.consume(token.SEMICOLON, loxerrors.ErrParseExpectedSemicolonAfterForLoopCond); err != nil {
		return nil, err
	}

	var increment Expr
	if !p.check(token.RIGHT_PAREN) {
		if increment, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err = p.consume(token.RIGHT_PAREN, loxerrors.ErrParseExpectedRightParentForToken); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &StmtBlock{
			Statements: []Stmt{body, &StmtExpression{Expression: increment}},
		}
	}
	if condition == nil {
		condition = &ExprLiteral{Value: true}
	}
	body = &StmtWhile{Condition: condition, Body: body}
	if initializer != nil {
		body = &StmtBlock{Statements: []Stmt{initializer, body}}
	}
	return body, nil
}

func (p *parser) printStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err = p.consume(token.SEMICOLON, loxerrors.ErrParseExpectedSemicolonTokenAfterExpr); err != nil {
		return nil, err
	}

	return &StmtPrint{Expression: expr}, nil
}

func (p *parser) whileStatement() (Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, loxerrors.ErrParseExpectedLeftParentWhileToken); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err = p.consume(token.RIGHT_PAREN, loxerrors.ErrParseExpectedRightParentWhileToken); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &StmtWhile{Condition: condition, Body: body}, nil
}

func (p *parser) blockStatement() ([]Stmt, error) {
	var stmts []Stmt

	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	if _, err := p.consume(token.RIGHT_BRACE, loxerrors.ErrParseExpectedRightCurlyBlockToken); err != nil {
		return nil, err
	}

	return stmts, nil
}

func (p *parser) expressionStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err = p.consume(token.SEMICOLON, loxerrors.ErrParseExpectedSemicolonTokenAfterExpr); err != nil {
		return nil, err
	}
	return &StmtExpression{Expression: expr}, nil
}

func (p *parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (Expr, error) {
	expr, err := p.logicOr()
	if err != nil {
		return nil, err
	}

	if p.match(token.EQUAL) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		if v, ok := expr.(*ExprVariable); ok {
			return &ExprAssign{Name: v.Name, Value: value}, nil
		}

		// Reported without synchronizing; the token stream is still well positioned.
		_ = p.reportError(equals, loxerrors.ErrParseInvalidAssignmentTarget)
	}

	return expr, nil
}

func (p *parser) logicOr() (Expr, error) {
	expr, err := p.logicAnd()
	if err != nil {
		return nil, err
	}

	for p.match(token.OR) {
		operator := p.previous()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		expr = &ExprLogical{Left: expr, Operator: operator, Right: right}
	}

	return expr, nil
}

func (p *parser) logicAnd() (Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}

	for p.match(token.AND) {
		operator := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ExprLogical{Left: expr, Operator: operator, Right: right}
	}

	return expr, nil
}

func (p *parser) equality() (Expr, error) {
	return p.binary(p.comparison, token.BANG_EQUAL, token.EQUAL_EQUAL)
}

func (p *parser) comparison() (Expr, error) {
	return p.binary(p.term, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL)
}

func (p *parser) term() (Expr, error) {
	return p.binary(p.factor, token.MINUS, token.PLUS)
}

func (p *parser) factor() (Expr, error) {
	return p.binary(p.unary, token.SLASH, token.STAR)
}

// binary parses a left-associative chain of operands joined by any of operators.
func (p *parser) binary(operand func() (Expr, error), operators ...token.TokenType) (Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for p.anyMatch(operators...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &ExprBinary{Left: expr, Operator: operator, Right: right}
	}

	return expr, nil
}

func (p *parser) unary() (Expr, error) {
	if p.anyMatch(token.BANG, token.MINUS) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ExprUnary{Operator: operator, Right: right}, nil
	}

	return p.primary()
}

func (p *parser) primary() (Expr, error) {
	switch {
	case p.match(token.FALSE):
		return &ExprLiteral{Value: false}, nil
	case p.match(token.TRUE):
		return &ExprLiteral{Value: true}, nil
	case p.match(token.NIL):
		return &ExprLiteral{Value: nil}, nil
	case p.anyMatch(token.NUMBER, token.STRING):
		return &ExprLiteral{Value: p.previous().Literal}, nil
	case p.match(token.IDENTIFIER):
		return &ExprVariable{Name: p.previous()}, nil
	}

	return p.grouping()
}

func (p *parser) grouping() (Expr, error) {
	if p.match(token.LEFT_PAREN) {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err = p.consume(token.RIGHT_PAREN, loxerrors.ErrParseExpectedRightParenToken); err != nil {
			return nil, err
		}
		return &ExprGrouping{Expression: expr}, nil
	}

	return nil, p.reportError(p.peek(), loxerrors.ErrParseUnexpectedToken)
}

func (p *parser) consume(tokenType token.TokenType, cause error) (*token.Token, error) {
	if p.check(tokenType) {
		return p.advance(), nil
	}
	return nil, p.reportError(p.peek(), cause)
}

func (p *parser) anyMatch(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) match(tokType token.TokenType) bool {
	if p.check(tokType) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) check(tokenType token.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == tokenType
}

func (p *parser) peek() *token.Token {
	return &p.tokens[p.current]
}

func (p *parser) previous() *token.Token {
	return &p.tokens[p.current-1]
}

func (p *parser) advance() *token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

// reportError records and reports a syntax error at tok.
func (p *parser) reportError(tok *token.Token, cause error) error {
	err := loxerrors.NewParseError(tok, cause)
	p.errs = append(p.errs, err)
	if p.reporter != nil {
		p.reporter.ReportError(err)
	}
	return err
}

// synchronize discards tokens until the start of the next statement.
func (p *parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}

		switch p.peek().Type {
		case token.CLASS,
			token.FUN,
			token.VAR,
			token.FOR,
			token.IF,
			token.WHILE,
			token.PRINT,
			token.RETURN:
			return
		}

		p.advance()
	}
}

var _ Parser = (*parser)(nil)
var _ fmt.Stringer = (*parser)(nil)
var _ fmt.GoStringer = (*parser)(nil)
