package action

import (
	"reflect"
	"testing"

	"embridge/util"
)

func testRegistry() *Registry {
	return NewRegistry(util.NewLogger(0))
}

func TestDispatch_InvokesHandlerWithArgs(t *testing.T) {
	r := testRegistry()

	var got []string
	r.Register("visit", func(args []string) { got = args })

	if !r.Dispatch(`visit "some file.go" 12 0`) {
		t.Fatal("Dispatch returned false for a registered command")
	}
	want := []string{"some file.go", "12", "0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("handler args = %#v, want %#v", got, want)
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	r := testRegistry()
	r.Register("known", func(args []string) { t.Error("wrong handler invoked") })

	if r.Dispatch("unknown a b") {
		t.Error("Dispatch reported success for an unknown command")
	}
}

func TestDispatch_EmptyLine(t *testing.T) {
	r := testRegistry()
	if r.Dispatch("   \t ") {
		t.Error("Dispatch reported success for a blank line")
	}
}

func TestDispatch_NoArgs(t *testing.T) {
	r := testRegistry()

	called := false
	r.Register("ping", func(args []string) {
		called = true
		if len(args) != 0 {
			t.Errorf("want no args, got %#v", args)
		}
	})

	r.Dispatch("ping")
	if !called {
		t.Error("handler not invoked")
	}
}

func TestRegister_LastWins(t *testing.T) {
	r := testRegistry()

	r.Register("cmd", func(args []string) { t.Error("stale handler invoked") })
	hit := false
	r.Register("cmd", func(args []string) { hit = true })

	r.Dispatch("cmd")
	if !hit {
		t.Error("replacement handler not invoked")
	}
}

func TestDispatch_HandlerPanicContained(t *testing.T) {
	r := testRegistry()
	r.Register("boom", func(args []string) { panic("handler bug") })

	// Must not propagate, and must still count as a handled command:
	// the handler ran, it just died.
	if !r.Dispatch("boom now") {
		t.Error("panicking handler reported as not handled")
	}

	// The registry still works afterwards.
	ok := false
	r.Register("fine", func(args []string) { ok = true })
	r.Dispatch("fine")
	if !ok {
		t.Error("registry unusable after handler panic")
	}
}
