// Package logger is a small levelled front end over the standard log package.
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Example usage:
//
//	logger.SetVerbosity(2) // Debug
//	logger.Infof("pricing %d paths", n)
//	logger.Debugf("spot=%f vol=%f", spot, vol)
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only failures.
	Info               // Info logs run lifecycle: inputs, seed, results.
	Debug              // Debug logs per-stage diagnostics.
	Trace              // Trace logs sampler internals.
)

var levelNames = map[string]Level{
	"error": Error,
	"info":  Info,
	"debug": Debug,
	"trace": Trace,
}

// current holds the active verbosity level.
// Only messages with level <= current are logged.
var current = Info

func init() {
	// Logs go to stderr so stdout carries only the price report.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

// SetVerbosity sets the global logging verbosity, clamped to [Error, Trace].
func SetVerbosity(v int) {
	current = Level(max(int(Error), min(v, int(Trace))))
}

// Verbosity returns the active level.
func Verbosity() Level {
	return current
}

// ParseLevel maps "error", "info", "debug" or "trace" to a Level.
func ParseLevel(s string) (Level, error) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Info, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// SetOutput redirects log output, e.g. to a buffer in tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func logf(l Level, prefix, format string, args ...any) {
	if current >= l {
		// depth 3 attributes the line to the caller of Errorf/Infof/...
		_ = log.Output(3, prefix+fmt.Sprintf(format, args...))
	}
}

// Errorf logs an error-level message.
func Errorf(format string, args ...any) {
	logf(Error, "[ERROR] ", format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	logf(Info, "[INFO]  ", format, args...)
}

// Debugf logs debugging information.
func Debugf(format string, args ...any) {
	logf(Debug, "[DEBUG] ", format, args...)
}

// Tracef logs very detailed execution traces.
// Use this sparingly due to high volume.
func Tracef(format string, args ...any) {
	logf(Trace, "[TRACE] ", format, args...)
}
