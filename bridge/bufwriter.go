package bridge

import "io"

// BufferWriter returns an io.Writer whose writes append to the named
// editor buffer.  Point a log output at it to mirror diagnostics into
// the editor; combine with StartBuffering/FlushBuffer to batch the
// traffic.
func (b *Bridge) BufferWriter(name string) io.Writer {
	return &bufferWriter{b: b, name: name}
}

type bufferWriter struct {
	b    *Bridge
	name string
}

func (w *bufferWriter) Write(p []byte) (int, error) {
	if err := w.b.AppendToBuffer(w.name, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
