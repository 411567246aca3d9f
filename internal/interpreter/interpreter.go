package interpreter

import (
	"context"
	"errors"
	"fmt"

	"github.com/leonardinius/treelox/internal/loxerrors"
	"github.com/leonardinius/treelox/internal/parser"
	"github.com/leonardinius/treelox/internal/token"
)

type Interpreter interface {
	// Interpret executes statements in order against the global environment.
	// The first runtime error stops the run; it is reported to the error
	// reporter once and returned.
	//
	// Not thread safe. Globals persist between calls.
	Interpret(ctx context.Context, stmts []parser.Stmt) error

	// Evaluate evaluates a single expression in the current environment.
	// Errors are returned, not reported.
	//
	// Not thread safe.
	Evaluate(ctx context.Context, expr parser.Expr) (Value, error)

	// Globals returns the global environment.
	Globals() *environment
}

type interpreter struct {
	globals *environment
	env     *environment
	opts    *interpreterOpts
}

func NewInterpreter(options ...InterpreterOption) Interpreter {
	opts := newInterpreterOpts(options...)
	return &interpreter{
		globals: opts.globals,
		env:     opts.globals,
		opts:    opts,
	}
}

// Interpret implements Interpreter.
func (i *interpreter) Interpret(ctx context.Context, stmts []parser.Stmt) error {
	for _, stmt := range stmts {
		if err := i.execute(ctx, stmt); err != nil {
			i.opts.reporter.ReportRuntimeError(err)
			return err
		}
	}

	return nil
}

// Evaluate implements Interpreter.
func (i *interpreter) Evaluate(ctx context.Context, expr parser.Expr) (Value, error) {
	return i.evaluate(ctx, expr)
}

// Globals implements Interpreter.
func (i *interpreter) Globals() *environment {
	return i.globals
}

func (i *interpreter) execute(ctx context.Context, stmt parser.Stmt) error {
	switch s := stmt.(type) {
	case *parser.StmtExpression:
		_, err := i.evaluate(ctx, s.Expression)
		return err
	case *parser.StmtPrint:
		return i.executePrint(ctx, s)
	case *parser.StmtVar:
		value, err := i.evaluate(ctx, s.Initializer)
		if err != nil {
			return err
		}
		i.env.Define(s.Name.Lexeme, value)
		return nil
	case *parser.StmtBlock:
		return i.executeBlock(ctx, i.env.Nest(), s.Statements)
	case *parser.StmtIf:
		return i.executeIf(ctx, s)
	case *parser.StmtWhile:
		return i.executeWhile(ctx, s)
	}

	panic(fmt.Sprintf("unexpected statement %T", stmt))
}

func (i *interpreter) executePrint(ctx context.Context, stmt *parser.StmtPrint) error {
	value, err := i.evaluate(ctx, stmt.Expression)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(i.opts.stdout, value.String())
	return err
}

// executeBlock runs stmts with env as the current environment. The previous
// environment is restored on every way out.
func (i *interpreter) executeBlock(ctx context.Context, env *environment, stmts []parser.Stmt) error {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range stmts {
		if err := i.execute(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

func (i *interpreter) executeIf(ctx context.Context, stmt *parser.StmtIf) error {
	condition, err := i.evaluate(ctx, stmt.Condition)
	if err != nil {
		return err
	}

	if IsTruthy(condition) {
		return i.execute(ctx, stmt.ThenBranch)
	} else if stmt.ElseBranch != nil {
		return i.execute(ctx, stmt.ElseBranch)
	}

	return nil
}

func (i *interpreter) executeWhile(ctx context.Context, stmt *parser.StmtWhile) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		condition, err := i.evaluate(ctx, stmt.Condition)
		if err != nil {
			return err
		}
		if !IsTruthy(condition) {
			return nil
		}

		if err = i.execute(ctx, stmt.Body); err != nil {
			return err
		}
	}
}

func (i *interpreter) evaluate(ctx context.Context, expr parser.Expr) (Value, error) {
	switch e := expr.(type) {
	case *parser.ExprLiteral:
		return FromLiteral(e.Value)
	case *parser.ExprGrouping:
		return i.evaluate(ctx, e.Expression)
	case *parser.ExprUnary:
		return i.evaluateUnary(ctx, e)
	case *parser.ExprBinary:
		return i.evaluateBinary(ctx, e)
	case *parser.ExprLogical:
		return i.evaluateLogical(ctx, e)
	case *parser.ExprVariable:
		return i.env.Get(e.Name)
	case *parser.ExprAssign:
		value, err := i.evaluate(ctx, e.Value)
		if err != nil {
			return nil, err
		}
		if _, err = i.env.Assign(e.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	}

	panic(fmt.Sprintf("unexpected expression %T", expr))
}

func (i *interpreter) evaluateUnary(ctx context.Context, expr *parser.ExprUnary) (Value, error) {
	right, err := i.evaluate(ctx, expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Type {
	case token.BANG:
		return ValueBool(!IsTruthy(right)), nil
	case token.MINUS:
		if v, ok := right.(ValueFloat); ok {
			return -v, nil
		}
		return nil, loxerrors.NewRuntimeError(expr.Operator, loxerrors.ErrRuntimeOperandMustBeNumber)
	}

	return i.unreachable(expr.Operator)
}

func (i *interpreter) evaluateLogical(ctx context.Context, expr *parser.ExprLogical) (Value, error) {
	left, err := i.evaluate(ctx, expr.Left)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Type {
	case token.OR:
		if IsTruthy(left) {
			return left, nil
		}
	case token.AND:
		if !IsTruthy(left) {
			return left, nil
		}
	default:
		return i.unreachable(expr.Operator)
	}

	return i.evaluate(ctx, expr.Right)
}

func (i *interpreter) evaluateBinary(ctx context.Context, expr *parser.ExprBinary) (Value, error) {
	left, err := i.evaluate(ctx, expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(ctx, expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Type {
	case token.EQUAL_EQUAL:
		return ValueBool(IsEqual(left, right)), nil
	case token.BANG_EQUAL:
		return ValueBool(!IsEqual(left, right)), nil
	case token.PLUS:
		if l, ok := left.(ValueString); ok {
			if r, ok := right.(ValueString); ok {
				return l + r, nil
			}
		}
		if l, ok := left.(ValueFloat); ok {
			if r, ok := right.(ValueFloat); ok {
				return l + r, nil
			}
		}
		return nil, loxerrors.NewRuntimeError(expr.Operator, loxerrors.ErrRuntimeOperandsMustNumbersOrStrings)
	}

	l, r, err := i.checkNumberOperands(expr.Operator, left, right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Type {
	case token.MINUS:
		return l - r, nil
	case token.SLASH:
		return l / r, nil
	case token.STAR:
		return l * r, nil
	case token.GREATER:
		return ValueBool(l > r), nil
	case token.GREATER_EQUAL:
		return ValueBool(l >= r), nil
	case token.LESS:
		return ValueBool(l < r), nil
	case token.LESS_EQUAL:
		return ValueBool(l <= r), nil
	}

	return i.unreachable(expr.Operator)
}

func (i *interpreter) checkNumberOperands(operator *token.Token, left, right Value) (ValueFloat, ValueFloat, error) {
	l, lok := left.(ValueFloat)
	r, rok := right.(ValueFloat)
	if !lok || !rok {
		return 0, 0, loxerrors.NewRuntimeError(operator, loxerrors.ErrRuntimeOperandsMustBeNumbers)
	}
	return l, r, nil
}

func (i *interpreter) unreachable(operator *token.Token) (Value, error) {
	panic(fmt.Sprintf("unexpected operator %#v", operator))
}

// IsRuntimeError reports whether err was raised by a script at run time.
func IsRuntimeError(err error) bool {
	var rte *loxerrors.RuntimeError
	return errors.As(err, &rte)
}

var _ Interpreter = (*interpreter)(nil)
