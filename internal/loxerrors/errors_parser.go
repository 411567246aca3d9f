package loxerrors

import (
	"errors"
	"fmt"

	"github.com/leonardinius/treelox/internal/token"
)

var (
	ErrParseError                             = errors.New("parse error.")
	ErrParseUnexpectedToken                   = errors.New("Expect expression.")
	ErrParseUnexpectedVariableName            = errors.New("Expect variable name.")
	ErrParseInvalidAssignmentTarget           = errors.New("Invalid assignment target.")
	ErrParseExpectedRightParenToken           = errors.New("Expect ')' after expression.")
	ErrParseExpectedLeftParentIfToken         = errors.New("Expect '(' after 'if'.")
	ErrParseExpectedRightParentIfToken        = errors.New("Expect ')' after if condition.")
	ErrParseExpectedLeftParentWhileToken      = errors.New("Expect '(' after 'while'.")
	ErrParseExpectedRightParentWhileToken     = errors.New("Expect ')' after condition.")
	ErrParseExpectedLeftParentForToken        = errors.New("Expect '(' after 'for'.")
	ErrParseExpectedRightParentForToken       = errors.New("Expect ')' after for clauses.")
	ErrParseExpectedRightCurlyBlockToken      = errors.New("Expect '}' after block.")
	ErrParseExpectedSemicolonTokenAfterExpr   = errors.New("Expect ';' after value.")
	ErrParseExpectedSemicolonTokenAfterVar    = errors.New("Expect ';' after variable declaration.")
	ErrParseExpectedSemicolonAfterForLoopCond = errors.New("Expect ';' after loop condition.")
)

func NewParseError(tok *token.Token, cause error) *ParserError {
	return &ParserError{tok: tok, cause: cause}
}

type ParserError struct {
	tok   *token.Token
	cause error
}

// Token returns the offending token.
func (p *ParserError) Token() *token.Token {
	return p.tok
}

// Error implements error.
func (p *ParserError) Error() string {
	where := "at end"
	if p.tok.Type != token.EOF {
		where = fmt.Sprintf("at '%s'", p.tok.Lexeme)
	}
	return fmt.Sprintf("[line %d] Error %s: %v", p.tok.Line, where, p.cause)
}

func (p *ParserError) Unwrap() error {
	return p.cause
}

var _ error = (*ParserError)(nil)
var _ unwrapper = (*ParserError)(nil)
