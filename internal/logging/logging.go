// Package logging wraps github.com/tliron/commonlog, the logging façade
// Fus3n-pyle's cmd/pyle-ls configures (SPEC_FULL.md §4.2). It is purely
// diagnostic: compile and runtime error reporting (spec.md §7) always
// goes straight to stderr regardless of what is configured here.
package logging

import (
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Configure installs the simple commonlog backend at the given verbosity
// (0 = warnings only, higher numbers = more detail, mirroring
// commonlog's MaxVerbosity convention).
func Configure(maxVerbosity int) {
	commonlog.Configure(maxVerbosity, nil)
}

// Logger adapts commonlog's per-package logger to the small Tracef/
// Debugf surface internal/vm needs, so that package does not import
// commonlog directly.
type Logger struct {
	log commonlog.Logger
}

// New returns a Logger scoped to name (e.g. "vm" or "gc").
func New(name string) Logger {
	return Logger{log: commonlog.GetLogger(name)}
}

func (l Logger) Tracef(format string, args ...any) {
	l.log.Debugf(format, args...)
}

func (l Logger) Debugf(format string, args ...any) {
	l.log.Noticef(format, args...)
}
