package util

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"testing"
)

// emitAll fires one message at every level and returns the lines that
// came out.
func emitAll(l *Logger) []string {
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	l.Error("e")
	l.Warn("w")
	l.Info("i")
	l.Verbose("v")
	l.Debug("d")

	out := strings.TrimSpace(buf.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestLogger_VerbosityFiltering(t *testing.T) {
	tests := []struct {
		verbosity int
		wantLines int
	}{
		{0, 1}, // errors only
		{1, 3}, // + warn, info
		{2, 4}, // + verbose
		{3, 5}, // + debug
	}
	for _, tt := range tests {
		lines := emitAll(NewLogger(tt.verbosity))
		if len(lines) != tt.wantLines {
			t.Errorf("verbosity %d: got %d lines, want %d:\n%s",
				tt.verbosity, len(lines), tt.wantLines, strings.Join(lines, "\n"))
		}
	}
}

func TestLogger_TagsInEmissionOrder(t *testing.T) {
	lines := emitAll(NewLogger(3))
	wantTags := []string{"[ERR]", "[WRN]", "[INF]", "[VRB]", "[DBG]"}
	if len(lines) != len(wantTags) {
		t.Fatalf("got %d lines, want %d", len(lines), len(wantTags))
	}
	for i, tag := range wantTags {
		if !strings.HasPrefix(lines[i], tag) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], tag)
		}
	}
}

func TestLogger_TimestampPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(1)
	l.SetOutput(&buf)
	l.SetTimestamps(true)

	l.Info("connected")

	// e.g. "14:03:59.201 [INF] connected"
	stamped := regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3} \[INF] connected\n$`)
	if !stamped.MatchString(buf.String()) {
		t.Errorf("timestamped line = %q", buf.String())
	}
}

func TestLogger_DebugVerbosityEnablesTimestamps(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(3)
	l.SetOutput(&buf)

	l.Debug("scan step")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3} `).MatchString(buf.String()) {
		t.Errorf("debug logger did not timestamp: %q", buf.String())
	}
}

func TestLogger_ConcurrentWritersKeepLinesWhole(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(1)
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				l.Info("channel message")
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != writers*perWriter {
		t.Fatalf("got %d lines, want %d", len(lines), writers*perWriter)
	}
	for _, line := range lines {
		if line != "[INF] channel message" {
			t.Fatalf("interleaved line: %q", line)
		}
	}
}
