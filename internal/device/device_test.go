package device

import (
	"io"
	"log/slog"
	"testing"
)

// Registration flips package state, so the before and after checks live in
// one ordered test.
func TestDriverRegistration(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if got := DriverName(); got != "none" {
		t.Fatalf("DriverName() = %q before registration, want none", got)
	}

	enum := NewEnumerator(logger)
	serials, err := enum.Enumerate()
	if err != nil {
		t.Fatalf("no-op enumerate: %v", err)
	}
	if len(serials) != 0 {
		t.Errorf("no-op enumerator reported %d devices", len(serials))
	}
	if _, err := enum.Open("045322line02", nil); err == nil {
		t.Error("no-op open should fail")
	}

	RegisterDriver("stub", func(*slog.Logger) Enumerator { return nil })
	if got := DriverName(); got != "stub" {
		t.Errorf("DriverName() = %q after registration, want stub", got)
	}
}
