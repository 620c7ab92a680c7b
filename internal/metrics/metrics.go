// Package metrics provides lightweight counters for tracking the
// activity of one editor channel.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for a channel instance.
// A nil Collector is safe to use — all methods become no-ops.
type Collector struct {
	connects        atomic.Int64 // successful EnsureRunning connects
	teardowns       atomic.Int64 // full channel teardowns
	commandsSent    atomic.Int64 // outbound s-expressions
	bytesOut        atomic.Int64
	chunksIn        atomic.Int64 // inbound dispatch units
	dispatched      atomic.Int64 // chunks that reached a handler
	unknownCommands atomic.Int64

	startTime time.Time
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Channel lifecycle ────────────────────────────────────────────────

// Connected records one successful connection.
func (c *Collector) Connected() {
	if c == nil {
		return
	}
	c.connects.Add(1)
}

// TornDown records one full teardown.
func (c *Collector) TornDown() {
	if c == nil {
		return
	}
	c.teardowns.Add(1)
}

// ── Outbound traffic ─────────────────────────────────────────────────

// CommandSent records one outbound command of n bytes.
func (c *Collector) CommandSent(n int64) {
	if c == nil {
		return
	}
	c.commandsSent.Add(1)
	c.bytesOut.Add(n)
}

// ── Inbound traffic ──────────────────────────────────────────────────

// ChunkReceived records one inbound dispatch unit.
func (c *Collector) ChunkReceived() {
	if c == nil {
		return
	}
	c.chunksIn.Add(1)
}

// Dispatched records one chunk handled by a registered action.
func (c *Collector) Dispatched() {
	if c == nil {
		return
	}
	c.dispatched.Add(1)
}

// UnknownCommand records one inbound command with no handler.
func (c *Collector) UnknownCommand() {
	if c == nil {
		return
	}
	c.unknownCommands.Add(1)
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Uptime          time.Duration `json:"uptime"`
	Connects        int64         `json:"connects"`
	Teardowns       int64         `json:"teardowns"`
	CommandsSent    int64         `json:"commands_sent"`
	BytesOut        int64         `json:"bytes_out"`
	ChunksIn        int64         `json:"chunks_in"`
	Dispatched      int64         `json:"dispatched"`
	UnknownCommands int64         `json:"unknown_commands"`
}

// Snapshot returns a copy of the current counters.  A nil Collector
// yields the zero Snapshot.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		Uptime:          time.Since(c.startTime),
		Connects:        c.connects.Load(),
		Teardowns:       c.teardowns.Load(),
		CommandsSent:    c.commandsSent.Load(),
		BytesOut:        c.bytesOut.Load(),
		ChunksIn:        c.chunksIn.Load(),
		Dispatched:      c.dispatched.Load(),
		UnknownCommands: c.unknownCommands.Load(),
	}
}
