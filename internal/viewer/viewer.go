// Package viewer is the sink for live frame display. The actual window is
// an external collaborator; builds without one get the no-op viewer and the
// capture loop runs headless.
package viewer

import (
	"log/slog"
	"sync"

	"github.com/depthrig/depthrig/internal/frame"
)

// Viewer displays frames pushed from a capture worker. Push and Render are
// called from the worker goroutine; a viewer instance is never shared
// between workers.
type Viewer interface {
	// Push hands a frame to the viewer under a display label. The frame
	// buffer is only valid until the worker releases its frame set, so
	// implementations must copy if they retain.
	Push(label string, f *frame.Frame)

	// Render draws the pushed frames and returns true when the user asked
	// to close the window.
	Render() bool

	// Close tears down the display.
	Close()
}

// Factory builds a viewer for one device slot.
type Factory func(serial string, logger *slog.Logger) Viewer

var (
	factoryMu  sync.RWMutex
	factory    Factory = newNoop
	registered bool
)

// RegisterFactory installs a viewer implementation. Called from init() in
// display-capable builds.
func RegisterFactory(f Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factory = f
	registered = true
}

// New returns a viewer for the given device, falling back to the no-op
// viewer when no display implementation is linked in.
func New(serial string, logger *slog.Logger) Viewer {
	factoryMu.RLock()
	f := factory
	factoryMu.RUnlock()
	return f(serial, logger)
}

// Available reports whether a real viewer implementation is registered.
func Available() bool {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	return registered
}
