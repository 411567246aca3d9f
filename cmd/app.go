package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/chzyer/readline"

	"github.com/leonardinius/treelox/internal/config"
	"github.com/leonardinius/treelox/internal/interpreter"
	"github.com/leonardinius/treelox/internal/loxerrors"
	"github.com/leonardinius/treelox/internal/parser"
	"github.com/leonardinius/treelox/internal/scanner"
)

// Exit codes, as in sysexits.h.
const (
	ExitOK          = 0
	ExitUsage       = 64
	ExitDataErr     = 65
	ExitSoftware    = 70
	ExitIOErr       = 74
	ExitConfig      = 78
	ExitInterrupted = 130
)

const usage = `usage: treelox [options] [script]

options:
  -h         print this help and exit
  -c FILE    load configuration from FILE
  -e SOURCE  run SOURCE instead of a script file
  -t         print the scanned tokens, do not run
  -a         print the parsed statements, do not run
  -r         print expressions in reverse polish notation, do not run
`

type runMode int

const (
	modeInterpret runMode = iota
	modeTokens
	modeAst
	modeRPN
)

// lineReader is the REPL input. readline.Instance satisfies it.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

type LoxApp struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	lineReader func(cfg *config.Config) (lineReader, error)

	mode        runMode
	reporter    loxerrors.ErrReporter
	interpreter interpreter.Interpreter
}

type AppOption func(*LoxApp)

func WithStdin(stdin io.Reader) AppOption {
	return func(app *LoxApp) {
		app.stdin = stdin
	}
}

func WithStdout(stdout io.Writer) AppOption {
	return func(app *LoxApp) {
		app.stdout = stdout
	}
}

func WithStderr(stderr io.Writer) AppOption {
	return func(app *LoxApp) {
		app.stderr = stderr
	}
}

// WithLineReader replaces the readline backed REPL input.
func WithLineReader(newLineReader func(cfg *config.Config) (lineReader, error)) AppOption {
	return func(app *LoxApp) {
		app.lineReader = newLineReader
	}
}

func NewLoxApp(options ...AppOption) *LoxApp {
	app := &LoxApp{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	app.lineReader = app.newReadline

	for _, opt := range options {
		opt(app)
	}
	return app
}

// Main runs the command line. args includes the program name.
func (app *LoxApp) Main(args []string) int {
	opts, optind, err := getopt.Getopts(args, "hc:e:tar")
	if err != nil {
		fmt.Fprintln(app.stderr, err)
		fmt.Fprint(app.stderr, usage)
		return ExitUsage
	}

	var configPath, source string
	var inline bool
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			configPath = opt.Value
		case 'e':
			source, inline = opt.Value, true
		case 't':
			app.mode = modeTokens
		case 'a':
			app.mode = modeAst
		case 'r':
			app.mode = modeRPN
		default: // case 'h':
			fmt.Fprint(app.stdout, usage)
			return ExitOK
		}
	}

	args = args[optind:]
	if len(args) > 1 || (inline && len(args) > 0) {
		fmt.Fprint(app.stderr, usage)
		return ExitUsage
	}

	cfg, err := config.Resolve(configPath)
	if err != nil {
		fmt.Fprintln(app.stderr, err)
		return ExitConfig
	}

	app.reporter = loxerrors.NewErrReporter(app.stderr, loxerrors.WithColor(cfg.UseColor()))
	app.interpreter = interpreter.NewInterpreter(
		interpreter.WithStdout(app.stdout),
		interpreter.WithStderr(app.stderr),
		interpreter.WithErrorReporter(app.reporter),
	)

	switch {
	case inline:
		return app.runSource(source)
	case len(args) == 1:
		return app.runFile(args[0])
	default:
		return app.runPrompt(cfg)
	}
}

func (app *LoxApp) runFile(scriptPath string) int {
	bytes, err := os.ReadFile(scriptPath)
	if err != nil {
		fmt.Fprintln(app.stderr, err)
		return ExitIOErr
	}

	return app.runSource(string(bytes))
}

func (app *LoxApp) runSource(source string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := app.run(ctx, source)
	switch {
	case app.reporter.HadError():
		return ExitDataErr
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case app.reporter.HadRuntimeError():
		return ExitSoftware
	}
	return ExitOK
}

func (app *LoxApp) runPrompt(cfg *config.Config) int {
	rl, err := app.lineReader(cfg)
	if err != nil {
		fmt.Fprintln(app.stderr, err)
		return ExitIOErr
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return ExitOK
		}
		if err != nil {
			fmt.Fprintln(app.stderr, err)
			return ExitIOErr
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		app.runLine(line)
		app.reporter.Reset()
	}
}

// runLine runs one REPL entry. Ctrl-C aborts the entry, not the session.
func (app *LoxApp) runLine(line string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_ = app.run(ctx, line)
}

// run scans and parses source, then acts on it according to the run mode.
// Diagnostics go to the reporter; nothing runs once an error was reported.
func (app *LoxApp) run(ctx context.Context, source string) error {
	tokens, scanErr := scanner.NewScanner(source, app.reporter).Scan()

	if app.mode == modeTokens {
		for _, tok := range tokens {
			fmt.Fprintln(app.stdout, tok.String())
		}
		return scanErr
	}

	statements, err := parser.NewParser(tokens, app.reporter).Parse()
	if err = errors.Join(scanErr, err); err != nil {
		return err
	}

	switch app.mode {
	case modeAst:
		printer := parser.NewAstPrinter()
		for _, stmt := range statements {
			fmt.Fprintln(app.stdout, printer.PrintStmt(stmt))
		}
		return nil
	case modeRPN:
		app.printRPN(statements)
		return nil
	}

	return app.interpreter.Interpret(ctx, statements)
}

func (app *LoxApp) printRPN(statements []parser.Stmt) {
	rpn := parser.NewRPNPrinter()
	printer := parser.NewAstPrinter()

	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *parser.StmtExpression:
			fmt.Fprintln(app.stdout, rpn.Print(s.Expression))
		case *parser.StmtPrint:
			fmt.Fprintln(app.stdout, rpn.Print(s.Expression))
		default:
			fmt.Fprintln(app.stdout, printer.PrintStmt(stmt))
		}
	}
}

func (app *LoxApp) newReadline(cfg *config.Config) (lineReader, error) {
	rlConfig := &readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          app.stdout,
		Stderr:          app.stderr,
	}
	// readline wraps os.Stdin itself so Close can interrupt a pending read
	if app.stdin != os.Stdin {
		rlConfig.Stdin = io.NopCloser(app.stdin)
	}

	return readline.NewEx(rlConfig)
}
