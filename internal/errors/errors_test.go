package errors

import (
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
)

func TestChannelError_Unwrap(t *testing.T) {
	inner := New("boom")
	err := Wrap("accept", "127.0.0.1:4444", inner)

	if !Is(err, inner) {
		t.Error("Wrap lost the underlying error")
	}
	var ce *ChannelError
	if !As(err, &ce) {
		t.Fatal("errors.As failed for *ChannelError")
	}
	if ce.Op != "accept" || ce.Addr != "127.0.0.1:4444" {
		t.Errorf("unexpected fields: %+v", ce)
	}
	if !strings.Contains(err.Error(), "accept") {
		t.Errorf("message %q missing operation", err.Error())
	}
}

func TestLaunchError(t *testing.T) {
	inner := New("no such file")
	err := &LaunchError{Path: "/usr/bin/emacs", Err: inner}

	if !Is(err, inner) {
		t.Error("LaunchError lost the underlying error")
	}
	if !strings.Contains(err.Error(), "/usr/bin/emacs") {
		t.Errorf("message %q missing program path", err.Error())
	}
}

func TestIsHarmlessClose(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"eof", io.EOF, true},
		{"wrapped eof", fmt.Errorf("read: %w", io.EOF), true},
		{"closed conn", net.ErrClosed, true},
		{"op error closed", &net.OpError{Op: "read", Err: net.ErrClosed}, true},
		{"closed pipe", io.ErrClosedPipe, true},
		{"real error", New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHarmlessClose(tt.err); got != tt.want {
				t.Errorf("IsHarmlessClose(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
