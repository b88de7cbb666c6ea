package session

import "sync/atomic"

// State carries the two cross-goroutine session flags. It is the only
// mutable state shared between the workers, the pause watcher, and the
// signal path; everything else is exclusively owned.
type State struct {
	shutdown atomic.Bool
	paused   atomic.Bool
}

// NewState returns a fresh state: not shut down, not paused.
func NewState() *State {
	return &State{}
}

// RequestShutdown marks the session for cooperative shutdown. Sticky: once
// set it is never cleared. Safe from any goroutine, including the signal
// forwarding path; it neither blocks nor allocates.
func (s *State) RequestShutdown() {
	s.shutdown.Store(true)
}

// ShutdownRequested reports whether shutdown has been requested. Workers
// poll this once per loop iteration, so worst-case shutdown latency is one
// frame-wait timeout.
func (s *State) ShutdownRequested() bool {
	return s.shutdown.Load()
}

// Paused reports whether streaming is currently paused.
func (s *State) Paused() bool {
	return s.paused.Load()
}

func (s *State) setPaused(v bool) {
	s.paused.Store(v)
}
