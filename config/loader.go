package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the EMBRIDGE_ prefix.

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("EMBRIDGE_EMACS"); v != "" {
		cfg.EmacsPath = v
	}
	if v := os.Getenv("EMBRIDGE_HOST"); v != "" {
		cfg.Host = v
	}
	if v := envInt("EMBRIDGE_BASE_PORT"); v > 0 {
		cfg.BasePort = v
	}
	if v := envInt("EMBRIDGE_PORT_STEP"); v > 0 {
		cfg.PortStep = v
	}
	if v := envInt("EMBRIDGE_PORT_SPAN"); v > 0 {
		cfg.PortSpan = v
	}
	if v := envInt("EMBRIDGE_ACCEPT_TIMEOUT"); v > 0 {
		cfg.AcceptTimeout = time.Duration(v) * time.Second
	}
	if v := envInt("EMBRIDGE_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
