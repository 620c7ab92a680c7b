package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultEmacsPath is the editor executable looked up on PATH.
	DefaultEmacsPath = "emacs"

	// DefaultHost is the loopback address the editor connects back to.
	DefaultHost = "127.0.0.1"

	// DefaultBasePort is the first candidate port for the listener.
	DefaultBasePort = 4444

	// DefaultPortStep is the increment between candidate ports when a
	// bind attempt fails.
	DefaultPortStep = 20

	// DefaultPortSpan bounds the scan: candidates stop at
	// DefaultBasePort+DefaultPortSpan.
	DefaultPortSpan = 1000

	// DefaultAcceptTimeout bounds the wait for the spawned editor to
	// connect back.  Zero would wait forever.
	DefaultAcceptTimeout = 60 * time.Second
)
