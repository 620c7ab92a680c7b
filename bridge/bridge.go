// Package bridge is the public face of embridge: a command channel
// that drives an external Emacs process as a remote display surface.
//
// A Bridge owns exactly one supervised channel.  Every command
// operation first makes sure the editor is running and connected,
// spawning it on demand; a dead channel makes the operation fail with
// an error rather than panic, and the next call starts one fresh
// connection attempt.
package bridge

import (
	_ "embed"
	"io"
	"path/filepath"

	"embridge/config"
	"embridge/internal/action"
	"embridge/internal/channel"
	"embridge/internal/elisp"
	"embridge/internal/metrics"
	"embridge/util"
)

// bootstrapEl is the editor-side glue evaluated by the spawned
// process; it connects back to the advertised port and evaluates
// whatever arrives on the socket.
//
//go:embed bootstrap.el
var bootstrapEl string

// StateDisabled is the visit state that opens a file read-only.
const StateDisabled = "disabled"

// Bridge composes the supervisor, the action registry, and the output
// buffering store into the public command API.
type Bridge struct {
	cfg      *config.Config
	logger   *util.Logger
	metrics  *metrics.Collector
	registry *action.Registry
	sup      *channel.Supervisor
	buffers  *bufferStore
}

// New returns an unconnected Bridge for cfg.  The editor is spawned
// lazily by the first command operation (or explicitly via Start).
func New(cfg *config.Config, logger *util.Logger) *Bridge {
	return newBridge(cfg, logger, nil)
}

func newBridge(cfg *config.Config, logger *util.Logger, launch channel.Launcher) *Bridge {
	if logger == nil {
		logger = util.NewLogger(0)
	}
	b := &Bridge{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics.New(),
		registry: action.NewRegistry(logger),
		buffers:  newBufferStore(),
	}
	b.sup = channel.New(cfg, channel.Options{
		Bootstrap: bootstrapEl,
		Dispatch:  b.dispatchChunk,
		Launch:    launch,
		Metrics:   b.metrics,
		Logger:    logger,
	})
	return b
}

func (b *Bridge) dispatchChunk(chunk string) {
	if b.registry.Dispatch(chunk) {
		b.metrics.Dispatched()
	} else {
		b.metrics.UnknownCommand()
	}
}

// ── Lifecycle ────────────────────────────────────────────────────────

// Start brings the editor up without sending anything.
func (b *Bridge) Start() error { return b.sup.EnsureRunning() }

// Alive reports whether the channel is currently live.  A false
// answer tears stale remnants down as a side effect.
func (b *Bridge) Alive() bool { return b.sup.Alive() }

// Close shuts the channel down.  Idempotent; the editor process is
// left running (use ExitEmacs to ask it to quit).
func (b *Bridge) Close() { b.sup.Close() }

// Metrics returns a snapshot of the channel's activity counters.
func (b *Bridge) Metrics() metrics.Snapshot { return b.metrics.Snapshot() }

// RegisterAction installs a handler for an inbound command name.
// Registering a name again replaces the previous handler.  Handlers
// run synchronously on the channel's reader goroutine.
func (b *Bridge) RegisterAction(name string, h action.Handler) {
	b.registry.Register(name, h)
}

// AddStartHook queues an expression sent after every (re)connection,
// in registration order, before any other command — typically to load
// a major mode for the application.
func (b *Bridge) AddStartHook(sexp string) { b.sup.AddStartHook(sexp) }

// ── Commands ─────────────────────────────────────────────────────────

// Eval sends a raw command expression verbatim, bringing the editor
// up first if needed.
func (b *Bridge) Eval(sexp string) error {
	if err := b.sup.EnsureRunning(); err != nil {
		return err
	}
	return b.sup.Send(sexp)
}

// VisitFilePosition opens path in the editor at the given position.
// Lines are 1-based and columns 0-based.  A state of StateDisabled
// opens the file read-only.
func (b *Bridge) VisitFilePosition(path string, line, col int, state string) error {
	return b.Eval(elisp.Visit(filepath.Dir(path), filepath.Base(path), line, col, state))
}

// AppendToBuffer appends text to the named editor buffer.  While a
// buffering session is open for name (see StartBuffering) the text
// only accumulates locally until FlushBuffer.
func (b *Bridge) AppendToBuffer(name, text string) error {
	if b.buffers.append(name, text) {
		return nil
	}
	return b.Eval(elisp.AppendToBuffer(name, text))
}

// ClearBuffer empties the named editor buffer.
func (b *Bridge) ClearBuffer(name string) error {
	return b.Eval(elisp.ClearBuffer(name))
}

// KillBuffer removes the named editor buffer.
func (b *Bridge) KillBuffer(name string) error {
	return b.Eval(elisp.KillBuffer(name))
}

// CreateCompilationBuffer creates the named buffer in compilation
// mode so that error references in it become navigable.
func (b *Bridge) CreateCompilationBuffer(name string) error {
	return b.Eval(elisp.CompilationBuffer(name))
}

// MarkAsProjectFiles announces root and its files as the project set.
func (b *Bridge) MarkAsProjectFiles(root string, files []string) error {
	return b.Eval(elisp.ProjectFiles(root, files))
}

// FillBuffer streams r into the named editor buffer as one insert
// command, without materializing the payload.
func (b *Bridge) FillBuffer(name string, r io.Reader) error {
	if err := b.sup.EnsureRunning(); err != nil {
		return err
	}
	return b.sup.SendStream(func(w io.Writer) error {
		if _, err := io.WriteString(w, elisp.FillBufferPrefix(name)); err != nil {
			return err
		}
		_, copyErr := io.Copy(elisp.NewEscapeWriter(w), r)
		// Terminate the expression even when the source reader failed,
		// so the editor never sees a half-open insert.
		if _, err := io.WriteString(w, elisp.FillBufferSuffix()); err != nil {
			return err
		}
		return copyErr
	})
}

// ExitEmacs asks a live editor to save its buffers and quit.  A dead
// channel counts as already satisfied; the editor is never restarted
// just to be shut down.
func (b *Bridge) ExitEmacs() error {
	if !b.sup.Alive() {
		return nil
	}
	return b.sup.Send(elisp.SaveBuffersKill())
}

// ── Output buffering ─────────────────────────────────────────────────

// StartBuffering begins coalescing AppendToBuffer writes for name.
// One wire command carries the whole accumulation at FlushBuffer
// time, which keeps high-frequency producers (compiler output, logs)
// from flooding the channel.  Idempotent.
func (b *Bridge) StartBuffering(name string) { b.buffers.start(name) }

// FlushBuffer ends the buffering session for name and sends the
// accumulated text as one append command.  A name with no open
// session is a no-op.
func (b *Bridge) FlushBuffer(name string) error {
	text, ok := b.buffers.take(name)
	if !ok {
		return nil
	}
	return b.AppendToBuffer(name, text)
}
