// Package action maps inbound command names to handler functions and
// dispatches tokenized command lines to them.
package action

import (
	"strings"
	"sync"

	"embridge/internal/token"
	"embridge/util"
)

// Handler executes one inbound command with its argument tokens.
type Handler func(args []string)

// Registry is a concurrency-safe name→handler table.  Handlers are
// registered by caller goroutines and invoked from the channel's
// reader goroutine.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *util.Logger
}

// NewRegistry returns an empty registry logging through logger.
func NewRegistry(logger *util.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register installs a handler for name.  Re-registering a name
// silently replaces the previous handler.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Dispatch tokenizes raw and invokes the matching handler with the
// remaining tokens, synchronously on the calling goroutine.
//
// A line with no tokens is skipped.  An unknown command name is
// logged and ignored.  A panicking handler is contained so that the
// reader loop survives it.  Dispatch reports whether a handler ran —
// a handler that panicked still ran.
func (r *Registry) Dispatch(raw string) (ok bool) {
	tokens := token.Split(strings.TrimSpace(raw))
	if len(tokens) == 0 {
		return false
	}

	r.mu.RLock()
	h, found := r.handlers[tokens[0]]
	r.mu.RUnlock()

	if !found {
		r.logger.Warn("no such action: %s", tokens[0])
		return false
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("action %s panicked: %v", tokens[0], p)
		}
	}()
	ok = true
	h(tokens[1:])
	return ok
}
