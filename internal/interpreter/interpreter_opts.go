package interpreter

import (
	"io"
	"os"

	"github.com/leonardinius/treelox/internal/loxerrors"
)

type interpreterOpts struct {
	globals  *environment
	stdout   io.Writer
	stderr   io.Writer
	reporter loxerrors.ErrReporter
}

type InterpreterOption func(*interpreterOpts)

// WithGlobals makes the interpreter run against an existing global environment.
func WithGlobals(globals *environment) InterpreterOption {
	return func(opts *interpreterOpts) {
		opts.globals = globals
	}
}

// WithStdout sets where print statements write to.
func WithStdout(stdout io.Writer) InterpreterOption {
	return func(opts *interpreterOpts) {
		opts.stdout = stdout
	}
}

func WithStderr(stderr io.Writer) InterpreterOption {
	return func(opts *interpreterOpts) {
		opts.stderr = stderr
	}
}

func WithErrorReporter(r loxerrors.ErrReporter) InterpreterOption {
	return func(opts *interpreterOpts) {
		opts.reporter = r
	}
}

func newInterpreterOpts(options ...InterpreterOption) *interpreterOpts {
	opts := interpreterOpts{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range options {
		opt(&opts)
	}

	if opts.globals == nil {
		opts.globals = NewEnvironment()
	}
	if opts.reporter == nil {
		opts.reporter = loxerrors.NewErrReporter(opts.stderr)
	}

	return &opts
}
