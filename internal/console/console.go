// Package console provides the process-wide leveled logger used by the CLI
// and the analysis services.
package console

import (
	"io"
	"log"
	"os"
)

// ConsoleLogger writes user-facing output to stdout and diagnostics to
// stderr. Debug output is gated by DebugLevel.
type ConsoleLogger struct {
	// DebugLevel enables debug output when > 0.
	DebugLevel int

	out *log.Logger
	err *log.Logger
}

// Logger is the shared instance.
var Logger = &ConsoleLogger{
	out: log.New(os.Stdout, "", log.LstdFlags),
	err: log.New(os.Stderr, "", log.LstdFlags),
}

// Info logs a user-facing message.
func (l *ConsoleLogger) Info(format string, v ...interface{}) {
	l.out.Printf(format, v...)
}

// Error logs a non-fatal analysis problem.
func (l *ConsoleLogger) Error(format string, v ...interface{}) {
	l.err.Printf("error: "+format, v...)
}

// Debug logs diagnostics when DebugLevel is set.
func (l *ConsoleLogger) Debug(format string, v ...interface{}) {
	if l.DebugLevel > 0 {
		l.err.Printf(format, v...)
	}
}

// Printf satisfies the Debugger interfaces threaded through service configs.
func (l *ConsoleLogger) Printf(format string, v ...interface{}) {
	l.Debug(format, v...)
}

// Quiet silences user-facing output; diagnostics still reach stderr.
func (l *ConsoleLogger) Quiet() {
	l.out = log.New(io.Discard, "", log.LstdFlags)
}
