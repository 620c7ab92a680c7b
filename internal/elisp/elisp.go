// Package elisp builds the s-expression command strings sent to the
// editor.  Every outbound operation on the wire is one well-formed
// expression produced here; nothing else in the module concatenates
// protocol text by hand.
package elisp

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Quote returns s as an elisp string literal, escaping backslashes and
// embedded double quotes.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Startup wraps the bootstrap source and the connect-back call into
// the single --eval argument handed to the spawned editor.
func Startup(bootstrap, appName, host string, port int) string {
	return fmt.Sprintf("(progn %s (eb-startup %s %s %d))",
		bootstrap, Quote(appName), Quote(host), port)
}

// Visit opens the file dir/name at line/col.  Lines are 1-based,
// columns 0-based.  A state of "disabled" makes the buffer read-only
// on the editor side.
func Visit(dir, name string, line, col int, state string) string {
	return fmt.Sprintf("(eb-visit %s %s %d %d %s)",
		Quote(dir), Quote(name), line, col, Quote(state))
}

// AppendToBuffer appends text to the named editor buffer.
func AppendToBuffer(name, text string) string {
	return fmt.Sprintf("(eb-append-to-buffer %s %s)", Quote(name), Quote(text))
}

// ClearBuffer empties the named buffer.
func ClearBuffer(name string) string {
	return fmt.Sprintf("(eb-clear-buffer %s)", Quote(name))
}

// KillBuffer removes the named buffer.
func KillBuffer(name string) string {
	return fmt.Sprintf("(eb-kill-buffer %s)", Quote(name))
}

// CompilationBuffer creates (or converts) the named buffer as a
// compilation-mode buffer so error references become clickable.
func CompilationBuffer(name string) string {
	return fmt.Sprintf("(eb-compilation-buffer %s)", Quote(name))
}

// ProjectFiles announces the project root and its file set.
func ProjectFiles(root string, files []string) string {
	var b strings.Builder
	b.WriteString("(eb-project-files ")
	b.WriteString(Quote(root))
	b.WriteString(" '( ")
	for _, f := range files {
		b.WriteString(Quote(f))
		b.WriteByte(' ')
	}
	b.WriteString("))")
	return b.String()
}

// SaveBuffersKill asks the editor to save everything and exit.
func SaveBuffersKill() string {
	return "(save-buffers-kill-emacs)"
}

// FillBufferPrefix opens a raw insert sequence at the end of the named
// buffer.  The caller streams escaped content after it and terminates
// with FillBufferSuffix.
func FillBufferPrefix(name string) string {
	return "(save-excursion (with-current-buffer (get-buffer-create " +
		Quote(name) + ") (goto-char (point-max)) (insert \""
}

// FillBufferSuffix closes the insert sequence opened by
// FillBufferPrefix.
func FillBufferSuffix() string {
	return "\")))"
}

// NewEscapeWriter wraps w so that streamed insert content is escaped
// the same way Quote escapes string literals.  Used when filling a
// buffer from an io.Reader without materializing the whole payload.
func NewEscapeWriter(w io.Writer) io.Writer {
	return &escapeWriter{w: w}
}

type escapeWriter struct {
	w io.Writer
}

func (e *escapeWriter) Write(p []byte) (int, error) {
	var buf bytes.Buffer
	buf.Grow(len(p))
	for _, c := range p {
		if c == '\\' || c == '"' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(c)
	}
	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}
