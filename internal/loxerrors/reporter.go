package loxerrors

import (
	"io"

	"github.com/fatih/color"
)

// ErrReporter receives every lexical, syntax and runtime error of a run.
//
// The flags are sticky: once an error was reported they stay set until Reset.
type ErrReporter interface {
	// ReportError reports a scan or parse error.
	ReportError(err error)
	// ReportRuntimeError reports an error raised while executing.
	ReportRuntimeError(err error)

	HadError() bool
	HadRuntimeError() bool
	Reset()
}

type errReporter struct {
	w               io.Writer
	errColor        *color.Color
	runtimeColor    *color.Color
	hadError        bool
	hadRuntimeError bool
}

type ReporterOption func(*errReporter)

// WithColor toggles ANSI colors on the diagnostics.
func WithColor(enabled bool) ReporterOption {
	return func(r *errReporter) {
		if enabled {
			r.errColor.EnableColor()
			r.runtimeColor.EnableColor()
		} else {
			r.errColor.DisableColor()
			r.runtimeColor.DisableColor()
		}
	}
}

// NewErrReporter returns a reporter writing to w. Colors are off unless WithColor(true) is given.
func NewErrReporter(w io.Writer, options ...ReporterOption) *errReporter {
	r := &errReporter{
		w:            w,
		errColor:     color.New(color.FgRed),
		runtimeColor: color.New(color.FgHiRed, color.Bold),
	}
	r.errColor.DisableColor()
	r.runtimeColor.DisableColor()

	for _, opt := range options {
		opt(r)
	}
	return r
}

// ReportError implements ErrReporter.
func (e *errReporter) ReportError(err error) {
	e.hadError = true
	_, _ = e.errColor.Fprintln(e.w, err.Error())
}

// ReportRuntimeError implements ErrReporter.
func (e *errReporter) ReportRuntimeError(err error) {
	e.hadRuntimeError = true
	_, _ = e.runtimeColor.Fprintln(e.w, err.Error())
}

// HadError implements ErrReporter.
func (e *errReporter) HadError() bool {
	return e.hadError
}

// HadRuntimeError implements ErrReporter.
func (e *errReporter) HadRuntimeError() bool {
	return e.hadRuntimeError
}

// Reset implements ErrReporter.
func (e *errReporter) Reset() {
	e.hadError = false
	e.hadRuntimeError = false
}

var _ ErrReporter = (*errReporter)(nil)
