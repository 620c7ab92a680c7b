// Package channel owns the live connection to the external editor:
// the listening socket, the spawned process, the accepted client
// connection, and the background reader that feeds inbound commands
// to the dispatcher.
//
// A Supervisor guarantees at most one live, singly-connected channel.
// Liveness checks are not read-only: discovering a dead channel tears
// everything down so the next EnsureRunning starts from a clean slate.
package channel

import (
	"bufio"
	"io"
	"net"
	"os/exec"
	"strings"
	"sync"
	"time"

	"embridge/config"
	"embridge/internal/elisp"
	eberrors "embridge/internal/errors"
	"embridge/internal/metrics"
	"embridge/util"
)

// drainWindow bounds how long the reader waits for the rest of a
// burst after its first byte.  Bytes arriving together are coalesced
// into a single dispatch unit.
const drainWindow = 5 * time.Millisecond

// Launcher starts the external editor process.  The default
// implementation uses os/exec; tests substitute one that dials back
// over the loopback instead of spawning anything.
type Launcher func(path string, args ...string) error

// Options wires a Supervisor to its collaborators.
type Options struct {
	Bootstrap string             // elisp source evaluated by the spawned editor
	Dispatch  func(chunk string) // receives each inbound dispatch unit
	Launch    Launcher           // nil = spawn via os/exec
	Metrics   *metrics.Collector // nil = no metrics
	Logger    *util.Logger
}

// Supervisor owns one editor channel.  All exported methods are safe
// for concurrent use; EnsureRunning and Close are mutually exclusive
// so that liveness-check-then-act is a single critical section.
type Supervisor struct {
	cfg       *config.Config
	logger    *util.Logger
	metrics   *metrics.Collector
	dispatch  func(string)
	bootstrap string
	launch    Launcher

	mu   sync.Mutex // lifecycle state below
	ln   net.Listener
	conn net.Conn
	port int

	wmu      sync.Mutex // wire writes; acquired after mu when both are held
	out      *bufio.Writer
	writeErr error

	hooksMu    sync.Mutex
	startHooks []string
}

// New returns an unconnected Supervisor.
func New(cfg *config.Config, opts Options) *Supervisor {
	logger := opts.Logger
	if logger == nil {
		logger = util.NewLogger(0)
	}
	s := &Supervisor{
		cfg:       cfg,
		logger:    logger,
		metrics:   opts.Metrics,
		dispatch:  opts.Dispatch,
		bootstrap: opts.Bootstrap,
	}
	if s.dispatch == nil {
		s.dispatch = func(string) {}
	}
	s.launch = opts.Launch
	if s.launch == nil {
		s.launch = s.spawn
	}
	return s
}

// AddStartHook appends an expression replayed in registration order
// after every successful (re)connection.  It takes effect on the next
// connect, not retroactively on the current one.
func (s *Supervisor) AddStartHook(sexp string) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.startHooks = append(s.startHooks, sexp)
}

// Port returns the currently bound listener port, or 0 when down.
func (s *Supervisor) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// Alive reports whether the channel is live.  A false answer has the
// side effect of tearing the remnants down.
func (s *Supervisor) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aliveLocked()
}

func (s *Supervisor) aliveLocked() bool {
	s.wmu.Lock()
	writerOK := s.out != nil && s.writeErr == nil
	s.wmu.Unlock()
	if s.ln == nil || !writerOK {
		s.closeLocked()
		return false
	}
	return true
}

// EnsureRunning brings the channel up if it is not already: bind a
// listener (scanning the configured port range), spawn the editor
// with a bootstrap expression pointing it back at the bound port,
// accept exactly one client, start the reader, and replay the start
// hooks.  Any failure after the bind tears the channel down and is
// returned; there is no retry.
func (s *Supervisor) EnsureRunning() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.aliveLocked() {
		return nil
	}

	if err := s.openListenerLocked(); err != nil {
		s.closeLocked()
		return err
	}
	addr := util.FormatAddr(s.cfg.Host, s.port)

	boot := elisp.Startup(s.bootstrap, s.cfg.AppName, s.cfg.Host, s.port)
	if err := s.launch(s.cfg.EmacsPath, "--eval", boot); err != nil {
		s.closeLocked()
		return &eberrors.LaunchError{Path: s.cfg.EmacsPath, Err: err}
	}
	s.logger.Verbose("editor launched, waiting for callback on %s", addr)

	conn, err := s.acceptLocked()
	if err != nil {
		s.logger.Error("accept failed on %s: %v", addr, err)
		s.closeLocked()
		return eberrors.Wrap("accept", addr, err)
	}
	s.conn = conn

	s.wmu.Lock()
	s.out = bufio.NewWriter(conn)
	s.writeErr = nil
	s.wmu.Unlock()

	go s.readLoop(conn, bufio.NewReader(conn))

	if err := s.replayStartHooks(); err != nil {
		s.logger.Error("start hook replay failed: %v", err)
		s.closeLocked()
		return err
	}

	s.metrics.Connected()
	s.logger.Verbose("editor connected from %s", conn.RemoteAddr())
	return nil
}

// Close tears the channel down in order: writer, client connection,
// listener.  Closing the connection interrupts the reader at its next
// blocking read.  Individual close errors are logged, not propagated.
// Closing an already-closed channel is a no-op.
func (s *Supervisor) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Supervisor) closeLocked() {
	if s.ln == nil && s.conn == nil {
		s.wmu.Lock()
		s.out = nil
		s.writeErr = nil
		s.wmu.Unlock()
		return
	}

	s.wmu.Lock()
	if s.out != nil {
		s.out.Flush() //nolint:errcheck
	}
	s.out = nil
	s.writeErr = nil
	s.wmu.Unlock()

	if s.conn != nil {
		if err := s.conn.Close(); err != nil && !eberrors.IsHarmlessClose(err) {
			s.logger.Warn("closing connection: %v", err)
		}
		s.conn = nil
	}
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !eberrors.IsHarmlessClose(err) {
			s.logger.Warn("closing listener: %v", err)
		}
		s.ln = nil
	}
	s.port = 0
	s.metrics.TornDown()
}

// teardown closes the channel only if conn is still the current
// connection, so a reader outliving its connection cannot kill a
// successor channel.
func (s *Supervisor) teardown(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != conn {
		return
	}
	s.closeLocked()
}

// ── Listener ─────────────────────────────────────────────────────────

// openListenerLocked scans from BasePort in PortStep increments until
// a bind succeeds or BasePort+PortSpan is passed.
func (s *Supervisor) openListenerLocked() error {
	base := s.cfg.BasePort
	for port := base; port <= base+s.cfg.PortSpan; port += s.cfg.PortStep {
		ln, err := net.Listen("tcp", util.FormatAddr(s.cfg.Host, port))
		if err != nil {
			s.logger.Debug("port %d taken: %v", port, err)
			continue
		}
		s.ln = ln
		s.port = port
		return nil
	}
	return eberrors.ErrPortExhausted
}

func (s *Supervisor) acceptLocked() (net.Conn, error) {
	if d := s.cfg.AcceptTimeout; d > 0 {
		if tl, ok := s.ln.(*net.TCPListener); ok {
			tl.SetDeadline(time.Now().Add(d)) //nolint:errcheck
		}
	}
	return s.ln.Accept()
}

// ── Process launch ───────────────────────────────────────────────────

// spawn is the default Launcher.  The editor is started detached; its
// death is only ever observed as EOF on the socket, but a reaper
// goroutine collects the exit status to avoid zombies.
func (s *Supervisor) spawn(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			s.logger.Debug("editor process exited: %v", err)
		}
	}()
	return nil
}

// ── Outbound ─────────────────────────────────────────────────────────

// Send writes one command expression and flushes.  Writes are
// serialized so concurrent callers cannot interleave partial commands
// on the wire.  A write failure is recorded, which makes the next
// liveness check tear the channel down.
func (s *Supervisor) Send(sexp string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.writeLocked(sexp)
}

// SendStream runs fn against the wire under the write lock, for
// commands too large to materialize as one string.  fn must write a
// single complete expression.
func (s *Supervisor) SendStream(fn func(w io.Writer) error) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if s.out == nil {
		return eberrors.Wrap("write", s.addr(), eberrors.ErrNotConnected)
	}
	err := fn(s.out)
	if ferr := s.out.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		s.writeErr = err
		return eberrors.Wrap("write", s.addr(), err)
	}
	return nil
}

func (s *Supervisor) writeLocked(sexp string) error {
	if s.out != nil && s.writeErr == nil {
		if _, err := s.out.WriteString(sexp); err != nil {
			s.writeErr = err
		} else if err := s.out.Flush(); err != nil {
			s.writeErr = err
		}
	}
	if s.out == nil {
		return eberrors.Wrap("write", s.addr(), eberrors.ErrNotConnected)
	}
	if s.writeErr != nil {
		return eberrors.Wrap("write", s.addr(), s.writeErr)
	}
	s.metrics.CommandSent(int64(len(sexp)))
	return nil
}

func (s *Supervisor) addr() string {
	return util.FormatAddr(s.cfg.Host, s.port)
}

func (s *Supervisor) replayStartHooks() error {
	s.hooksMu.Lock()
	hooks := make([]string, len(s.startHooks))
	copy(hooks, s.startHooks)
	s.hooksMu.Unlock()

	for _, sexp := range hooks {
		if err := s.Send(sexp); err != nil {
			return err
		}
	}
	return nil
}

// ── Inbound ──────────────────────────────────────────────────────────

// readLoop runs for the lifetime of one connection.  Each iteration
// blocks for a first byte, drains the rest of the burst, and hands
// the chunk to the dispatcher inline.  EOF or any read error ends the
// loop and tears the channel down; Close interrupts the loop at the
// blocking read by closing the connection.
func (s *Supervisor) readLoop(conn net.Conn, br *bufio.Reader) {
	for {
		chunk, err := readChunk(conn, br)
		if err != nil {
			if !eberrors.IsHarmlessClose(err) {
				s.logger.Warn("channel read: %v", err)
			}
			s.teardown(conn)
			return
		}
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		s.metrics.ChunkReceived()
		s.dispatch(chunk)
	}
}

// readChunk reads one dispatch unit: a blocking read for the first
// byte, then everything that arrives within drainWindow of it.  The
// protocol is not framed; a burst written together is delivered
// together.
func readChunk(conn net.Conn, br *bufio.Reader) (string, error) {
	first, err := br.ReadByte()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteByte(first)

	for {
		if n := br.Buffered(); n > 0 {
			buf, _ := br.Peek(n)
			sb.Write(buf)
			br.Discard(n) //nolint:errcheck
			continue
		}
		conn.SetReadDeadline(time.Now().Add(drainWindow)) //nolint:errcheck
		if _, err := br.Peek(1); err != nil {
			// Timeout means the burst is drained; a real error will
			// surface again at the next blocking read.
			break
		}
	}
	conn.SetReadDeadline(time.Time{}) //nolint:errcheck

	return sb.String(), nil
}
