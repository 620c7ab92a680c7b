package bridge

import (
	"strings"
	"sync"
)

// bufferStore holds pending output for editor buffers whose writes are
// being coalesced.  Presence of an entry means writes to that buffer
// are deferred; absence means they go straight to the wire.
type bufferStore struct {
	mu      sync.Mutex
	pending map[string]*strings.Builder
}

func newBufferStore() *bufferStore {
	return &bufferStore{pending: make(map[string]*strings.Builder)}
}

// start opens a buffering session for name.  Idempotent: an existing
// session keeps its accumulated content.
func (st *bufferStore) start(name string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.pending[name]; !ok {
		st.pending[name] = &strings.Builder{}
	}
}

// append adds text to the pending entry for name and reports whether
// one existed.  A false return means the caller must send immediately.
func (st *bufferStore) append(name, text string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	sb, ok := st.pending[name]
	if !ok {
		return false
	}
	sb.WriteString(text)
	return true
}

// take removes the pending entry for name and returns its content.
func (st *bufferStore) take(name string) (string, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sb, ok := st.pending[name]
	if !ok {
		return "", false
	}
	delete(st.pending, name)
	return sb.String(), true
}
