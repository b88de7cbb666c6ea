package viewer

import (
	"io"
	"log/slog"
	"testing"

	"github.com/depthrig/depthrig/internal/frame"
)

type stubViewer struct {
	pushes int
}

func (s *stubViewer) Push(string, *frame.Frame) { s.pushes++ }
func (s *stubViewer) Render() bool              { return false }
func (s *stubViewer) Close()                    {}

// Registration flips package state, so the before and after checks live in
// one ordered test.
func TestRegisterFactory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if Available() {
		t.Fatal("no display implementation is linked into tests")
	}
	v := New("045322line02", logger)
	if v.Render() {
		t.Error("no-op viewer should never request close")
	}
	v.Push("depth", frame.New(512, 424, 4))
	v.Close()

	stub := &stubViewer{}
	RegisterFactory(func(string, *slog.Logger) Viewer { return stub })
	if !Available() {
		t.Fatal("Available() = false after RegisterFactory")
	}
	got := New("045322line02", logger)
	got.Push("depth", frame.New(512, 424, 4))
	if stub.pushes != 1 {
		t.Errorf("registered factory not used, pushes = %d", stub.pushes)
	}
}
