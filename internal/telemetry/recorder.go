package telemetry

import (
	"github.com/depthrig/depthrig/internal/events"
)

// Recorder feeds session events into the Prometheus metrics and the status
// cache. It owns no goroutines; kelindar/event delivers on its own.
type Recorder struct {
	unsubs []func()
}

// NewRecorder subscribes to the bus and starts recording.
func NewRecorder(bus *events.Bus) *Recorder {
	r := &Recorder{}
	r.unsubs = append(r.unsubs,
		bus.Subscribe(func(e events.StreamStateEvent) {
			SetStreamState(e.Serial, e.State)
			if e.State == events.StreamStarted {
				RecordWorkerStart()
			}
		}),
		bus.Subscribe(func(e events.FrameProgressEvent) {
			SetFramesCaptured(e.Serial, e.FrameCount)
		}),
		bus.Subscribe(func(e events.WorkerExitEvent) {
			if e.Reason == events.ExitTimeout {
				RecordFrameTimeout(e.Serial)
			}
			RecordWorkerExit(e.Serial, e.Reason, e.FrameCount)
		}),
		bus.Subscribe(func(e events.PauseToggledEvent) {
			RecordPauseToggle(e.Paused)
		}),
	)
	return r
}

// Close detaches the recorder from the bus.
func (r *Recorder) Close() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}
