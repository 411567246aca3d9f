package interpreter_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leonardinius/treelox/internal/interpreter"
	"github.com/leonardinius/treelox/internal/loxerrors"
	"github.com/leonardinius/treelox/internal/parser"
	"github.com/leonardinius/treelox/internal/scanner"
)

func TestInterpret(t *testing.T) {
	testcases := []struct {
		name string
		in   string // Input
		out  string // Expected output, stdout and stderr combined
		err  string // Expected error
	}{
		{name: `print number`, in: `print 1 + 2 * 3;`, out: "7\n"},
		{name: `print integer float`, in: `print 3.0;`, out: "3\n"},
		{name: `print fraction`, in: `print 1 / 3;`, out: "0.33333333\n"},
		{name: `print string`, in: `print "foo" + "bar";`, out: "foobar\n"},
		{name: `print nil`, in: `print nil;`, out: "nil\n"},
		{name: `print bool`, in: `print 1 == "1";`, out: "false\n"},
		{name: `print multiline string`, in: "print \"a\nb\";", out: "a\nb\n"},
		{name: `emty var`, in: `var a;print a;`, out: "nil\n"},
		{name: `var init`, in: `var a =1;print a;`, out: "1\n"},
		{name: `var assign`, in: `var a =1;a=2;print a;`, out: "2\n"},
		{name: `var redeclare`, in: `var a =1;var a =a+1;print a;`, out: "2\n"},
		{name: `var multiple var math`, in: `var a =1;var b=2;print a+b;`, out: "3\n"},
		{name: `var assign expression`, in: `var a;var b;print a = b = "x";print a+b;`, out: "x\nxx\n"},
		{name: `var assign error unrecognized var`, in: `b=1;`, err: "Undefined variable 'b'.", out: "Undefined variable 'b'.\n[line 1]\n"},
		{name: `var syntax error 1`, in: `var print;`, err: `parse error.`, out: "[line 1] Error at 'print': Expect variable name.\n"},
		{name: `var syntax error 2`, in: `var a`, err: `parse error.`, out: "[line 1] Error at end: Expect ';' after variable declaration.\n"},
		{name: `var assign error`, in: `var a;(a)=1;`, err: `parse error.`, out: "[line 1] Error at '=': Invalid assignment target.\n"},
		{name: `scope shadow`, in: `var a = 1; { var a = 2; print a; } print a;`, out: "2\n1\n"},
		{name: `var scope top level`, in: `var a=1;{a=2;print a;{a=3;print a;{a=4;print a;}}}print a;`, out: "2\n3\n4\n4\n"},
		{name: `var scope nested`, in: `var a=1;{var a=2;print a;{var a=3;print a;{var a=4;print a;}}}print a;`, out: "2\n3\n4\n1\n"},
		{name: `var scope multiple`, in: `var a=1;var b=2;{var a=2;print a;var b=4;print b;{var a=3;print a;var b=6;print b;{var a=4;print a;var b=8;print b;}}}print a;print b;print a+b;`, out: "2\n4\n3\n6\n4\n8\n1\n2\n3\n"},
		{name: `var scope leaves block`, in: `{var inner=1;}print inner;`, err: "Undefined variable 'inner'.", out: "Undefined variable 'inner'.\n[line 1]\n"},
		{name: `var initializer sees outer`, in: `var a=1;{var a=a+1;print a;}print a;`, out: "2\n1\n"},
		{name: `if then`, in: `if (1) print "then";`, out: "then\n"},
		{name: `if else`, in: `if (nil) print "then"; else print "else";`, out: "else\n"},
		{name: `if no else`, in: `if (false) print "then";print "after";`, out: "after\n"},
		{name: `dangling else`, in: `if (true) if (false) print 1; else print 2;`, out: "2\n"},
		{name: `logic and side effect`, in: `var a=0;false and (a=1);print a;`, out: "0\n"},
		{name: `logic and evaluates right`, in: `var a=0;true and (a=1);print a;`, out: "1\n"},
		{name: `logic or side effect`, in: `var a=0;true or (a=1);print a;`, out: "0\n"},
		{name: `logic or evaluates right`, in: `var a=0;false or (a=1);print a;`, out: "1\n"},
		{name: `logic value`, in: `print nil or "default";print "a" and "b";`, out: "default\nb\n"},
		{name: `while loop`, in: `var a=1;while(a<10){print a;a=a+1;}`, out: "1\n2\n3\n4\n5\n6\n7\n8\n9\n"},
		{name: `while false`, in: `while(false) print 1;print 2;`, out: "2\n"},
		{name: `for loop`, in: `for (var i = 0; i < 3; i = i + 1) print i;`, out: "0\n1\n2\n"},
		{name: `for loop scope`, in: `var i = "outer";for (var i = 0; i < 1; i = i + 1) print i;print i;`, out: "0\nouter\n"},
		{name: `for no initializer`, in: `var i=0;for (;i<2;) {print i;i=i+1;}`, out: "0\n1\n"},
		{name: `for expression initializer`, in: `var i;for (i=5;i<7;i=i+1) print i;print i;`, out: "5\n6\n7\n"},
		{name: `fibonacci`, in: `var a=0;var temp;for(var b=1;a<100;b=temp+b){print a;temp=a;a=b;}`, out: "0\n1\n1\n2\n3\n5\n8\n13\n21\n34\n55\n89\n"},
		{name: `runtime error stops execution`, in: "print 1;\nprint \"a\" + 1;\nprint 2;", err: "Operands must be two numbers or two strings.", out: "1\nOperands must be two numbers or two strings.\n[line 2]\n"},
		{name: `runtime error in loop`, in: "var i=0;while(i<5){print i;if(i==2) i=i+nil; i=i+1;}", err: "Operands must be two numbers or two strings.", out: "0\n1\n2\nOperands must be two numbers or two strings.\n[line 1]\n"},
		{name: `parse error prevents execution`, in: `print 1; print ; print 2; var = 3;`, err: `parse error.`, out: "[line 1] Error at ';': Expect expression.\n[line 1] Error at '=': Expect variable name.\n"},
		{name: `scan error prevents execution`, in: `print 1; @`, err: `Unexpected character.`, out: "[line 1] Error: Unexpected character. '@'\n"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(tc.in)
			if tc.err != "" {
				assert.ErrorContains(t, err, tc.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.out, out)
		})
	}
}

func TestInterpretReplMultiline(t *testing.T) {
	testcases := []struct {
		name string
		in   []string // Input, one entry per line
		out  string   // Expected output
	}{
		{name: `var repl`,
			in:  []string{`var dd;print dd;`, `print dd;`, `dd=5;`, `print dd;`},
			out: "nil\nnil\n5\n"},
		{name: `error does not lose globals`,
			in:  []string{`var a = 1;`, `a = a + "x";`, `print a;`},
			out: "Operands must be two numbers or two strings.\n[line 1]\n1\n"},
		{name: `parse error skips the line`,
			in:  []string{`var a = 1;`, `print a; a = ;`, `print a;`},
			out: "[line 1] Error at ';': Expect expression.\n1\n"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			out := replLineByLine(tc.in...)
			assert.Equal(t, tc.out, out)
		})
	}
}

func run(script string) (string, error) {
	stdouterr := strings.Builder{}
	reporter := loxerrors.NewErrReporter(&stdouterr)

	eval := interpreter.NewInterpreter(
		interpreter.WithStdout(&stdouterr),
		interpreter.WithStderr(&stdouterr),
		interpreter.WithErrorReporter(reporter),
	)

	err := runWith(context.TODO(), eval, reporter, script)
	return stdouterr.String(), err
}

func replLineByLine(lines ...string) string {
	stdouterr := strings.Builder{}
	reporter := loxerrors.NewErrReporter(&stdouterr)
	ctx := context.TODO()

	eval := interpreter.NewInterpreter(
		interpreter.WithStdout(&stdouterr),
		interpreter.WithStderr(&stdouterr),
		interpreter.WithErrorReporter(reporter),
	)

	for _, line := range lines {
		_ = runWith(ctx, eval, reporter, line)
		reporter.Reset()
	}

	return stdouterr.String()
}

func runWith(ctx context.Context, eval interpreter.Interpreter, reporter loxerrors.ErrReporter, source string) error {
	tokens, err := scanner.NewScanner(source, reporter).Scan()
	if err != nil {
		return err
	}

	stmts, err := parser.NewParser(tokens, reporter).Parse()
	if err != nil {
		return err
	}

	return eval.Interpret(ctx, stmts)
}
