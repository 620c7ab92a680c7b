package elisp

import (
	"bytes"
	"strings"
	"testing"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", `"plain"`},
		{"", `""`},
		{`with "quotes"`, `"with \"quotes\""`},
		{`back\slash`, `"back\\slash"`},
		{"spaces are fine", `"spaces are fine"`},
	}
	for _, tt := range tests {
		if got := Quote(tt.input); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestVisit(t *testing.T) {
	got := Visit("/home/user/src", "main.go", 12, 0, "disabled")
	want := `(eb-visit "/home/user/src" "main.go" 12 0 "disabled")`
	if got != want {
		t.Errorf("Visit = %s, want %s", got, want)
	}
}

func TestBufferCommands(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{AppendToBuffer("*log*", "hello"), `(eb-append-to-buffer "*log*" "hello")`},
		{ClearBuffer("*log*"), `(eb-clear-buffer "*log*")`},
		{KillBuffer("*log*"), `(eb-kill-buffer "*log*")`},
		{CompilationBuffer("*compilation*"), `(eb-compilation-buffer "*compilation*")`},
		{SaveBuffersKill(), `(save-buffers-kill-emacs)`},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %s, want %s", tt.got, tt.want)
		}
	}
}

func TestProjectFiles(t *testing.T) {
	got := ProjectFiles("/proj", []string{"/proj/a.go", "/proj/b.go"})
	want := `(eb-project-files "/proj" '( "/proj/a.go" "/proj/b.go" ))`
	if got != want {
		t.Errorf("ProjectFiles = %s, want %s", got, want)
	}
}

func TestStartup(t *testing.T) {
	got := Startup("(defun eb-startup (a h p) nil)", "myapp", "127.0.0.1", 4464)
	if !strings.HasPrefix(got, "(progn (defun eb-startup") {
		t.Errorf("Startup prefix wrong: %s", got)
	}
	if !strings.Contains(got, `(eb-startup "myapp" "127.0.0.1" 4464)`) {
		t.Errorf("Startup missing connect-back call: %s", got)
	}
}

func TestFillBufferFraming(t *testing.T) {
	prefix := FillBufferPrefix("*out*")
	if !strings.Contains(prefix, `(get-buffer-create "*out*")`) {
		t.Errorf("prefix missing buffer name: %s", prefix)
	}
	if !strings.HasSuffix(prefix, `(insert "`) {
		t.Errorf("prefix must end in an open insert literal: %s", prefix)
	}
	if FillBufferSuffix() != `")))` {
		t.Errorf("suffix = %s", FillBufferSuffix())
	}
}

func TestEscapeWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewEscapeWriter(&buf)

	n, err := w.Write([]byte(`say "hi" c:\tmp`))
	if err != nil {
		t.Fatal(err)
	}
	if n != len(`say "hi" c:\tmp`) {
		t.Errorf("n = %d", n)
	}
	want := `say \"hi\" c:\\tmp`
	if buf.String() != want {
		t.Errorf("escaped = %s, want %s", buf.String(), want)
	}
}
