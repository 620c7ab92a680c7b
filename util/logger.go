// Package util holds the small shared pieces of embridge: the
// levelled logger every component reports through, and the network
// address helpers behind the channel's port scan.
package util

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel controls how chatty a Logger is.
type LogLevel int

const (
	LogQuiet   LogLevel = iota // errors only
	LogNormal                  // + warnings and info
	LogVerbose                 // + channel lifecycle detail
	LogDebug                   // + wire-level detail
)

// Logger writes levelled, tagged lines to one writer.  A single
// instance is shared by the bridge, the supervisor, and the action
// registry — including the reader goroutine — so every write is
// serialized by a mutex.
type Logger struct {
	mu         sync.Mutex
	level      LogLevel
	out        io.Writer
	timestamps bool
}

// NewLogger returns a Logger filtering at the given verbosity
// (0 = quiet, 1 = normal, 2 = verbose, 3 = debug) and writing to
// stderr.  Debug verbosity switches timestamps on, so interleaved
// wire traces stay ordered.
func NewLogger(verbosity int) *Logger {
	return &Logger{
		level:      LogLevel(verbosity),
		out:        os.Stderr,
		timestamps: verbosity >= 3,
	}
}

// SetOutput redirects the Logger; tests point it at a buffer.
func (l *Logger) SetOutput(w io.Writer) { l.out = w }

// SetTimestamps toggles the timestamp prefix independently of the
// verbosity that was given to NewLogger.
func (l *Logger) SetTimestamps(on bool) { l.timestamps = on }

// Error always prints, whatever the verbosity.
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit(LogQuiet, "ERR", format, args...)
}

// Warn prints at normal verbosity and above.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(LogNormal, "WRN", format, args...)
}

// Info prints at normal verbosity and above.
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(LogNormal, "INF", format, args...)
}

// Verbose prints channel lifecycle detail (connects, teardowns).
func (l *Logger) Verbose(format string, args ...interface{}) {
	l.emit(LogVerbose, "VRB", format, args...)
}

// Debug prints wire-level detail (port scan steps, process exits).
func (l *Logger) Debug(format string, args ...interface{}) {
	l.emit(LogDebug, "DBG", format, args...)
}

// emit writes one line when the Logger's level admits it.
func (l *Logger) emit(min LogLevel, tag, format string, args ...interface{}) {
	if l.level < min {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.timestamps {
		fmt.Fprintf(l.out, "%s [%s] %s\n",
			time.Now().Format("15:04:05.000"), tag, fmt.Sprintf(format, args...))
		return
	}
	fmt.Fprintf(l.out, "[%s] %s\n", tag, fmt.Sprintf(format, args...))
}
