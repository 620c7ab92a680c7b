// Package errors provides domain-specific error types for embridge.
//
// These types carry structured context (operation, address, the
// spawned program) that helps callers tell a dead channel apart from
// a misconfiguration and provides better diagnostics than plain
// string wrapping.
package errors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrPortExhausted means the listener port scan ran out of
	// candidates without finding a free port.
	ErrPortExhausted = errors.New("no free port in scan range")

	// ErrNotConnected means an operation needed a live channel and
	// there was none.
	ErrNotConnected = errors.New("channel is not connected")
)

// ── Structured error types ───────────────────────────────────────────

// LaunchError represents a failure to spawn the external editor
// process.
type LaunchError struct {
	Path string // program that failed to start
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ChannelError represents a failure on the command channel itself.
type ChannelError struct {
	Op   string // "listen", "accept", "read", "write", "close"
	Addr string // network address involved
	Err  error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a ChannelError for the given operation and address.
func Wrap(op, addr string, err error) *ChannelError {
	return &ChannelError{Op: op, Addr: addr, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// IsHarmlessClose reports whether err is one of the errors expected
// when a connection is torn down on purpose: EOF, a closed socket, or
// a closed pipe.  The reader loop uses this to decide whether a read
// failure deserves a warning.
func IsHarmlessClose(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	// net.OpError wrapping "use of closed network connection"
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}

// IsTimeout reports whether err is a network timeout (an expired
// accept or read deadline).
func IsTimeout(err error) bool {
	return err != nil && os.IsTimeout(err)
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use embridge/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }
