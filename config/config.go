// Package config defines the runtime configuration for an embridge
// channel: where the editor binary lives, how the listener port scan
// behaves, and how long to wait for the editor to call back.
package config

import (
	"fmt"
	"time"

	"embridge/util"
)

// Config holds every tuneable for a single editor channel.
type Config struct {
	// ── Identity ─────────────────────────────────────────────────────
	AppName string // shown in editor buffers and menus
	Host    string // loopback address the editor connects back to

	// ── Editor process ───────────────────────────────────────────────
	EmacsPath string // editor executable (name or absolute path)

	// ── Listener port scan ───────────────────────────────────────────
	BasePort int // first candidate port
	PortStep int // increment between candidates
	PortSpan int // scan stops at BasePort+PortSpan

	// ── Timeouts ─────────────────────────────────────────────────────
	AcceptTimeout time.Duration // 0 = wait forever for the callback

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// New returns a Config populated with defaults.
func New(appName string) *Config {
	return &Config{
		AppName:       appName,
		Host:          DefaultHost,
		EmacsPath:     DefaultEmacsPath,
		BasePort:      DefaultBasePort,
		PortStep:      DefaultPortStep,
		PortSpan:      DefaultPortSpan,
		AcceptTimeout: DefaultAcceptTimeout,
	}
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.AppName == "" {
		return fmt.Errorf("application name is required")
	}
	if c.EmacsPath == "" {
		return fmt.Errorf("editor executable is required")
	}
	if !util.IsLoopback(c.Host) {
		return fmt.Errorf("host %q is not a loopback address", c.Host)
	}
	if c.BasePort < 1 || c.BasePort > 65535 {
		return fmt.Errorf("base port %d out of range 1-65535", c.BasePort)
	}
	if c.PortStep < 1 {
		return fmt.Errorf("port step must be positive, got %d", c.PortStep)
	}
	if c.PortSpan < 0 {
		return fmt.Errorf("port span must be non-negative, got %d", c.PortSpan)
	}
	if c.AcceptTimeout < 0 {
		return fmt.Errorf("accept timeout must be non-negative, got %v", c.AcceptTimeout)
	}
	return nil
}
