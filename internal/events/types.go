package events

import "time"

// Event type constants for kelindar/event.
const (
	TypeDeviceDiscovery uint32 = iota + 1
	TypeStreamState
	TypeFrameProgress
	TypeWorkerExit
	TypePauseToggled
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// DeviceDiscoveryEvent is published once per session after enumeration.
type DeviceDiscoveryEvent struct {
	Serials   []string  `json:"serials"`
	Selected  []string  `json:"selected"`
	Timestamp time.Time `json:"timestamp"`
}

// Type returns the event type identifier for DeviceDiscoveryEvent.
func (e DeviceDiscoveryEvent) Type() uint32 { return TypeDeviceDiscovery }

// Stream states carried by StreamStateEvent.
const (
	StreamStarted = "started"
	StreamStopped = "stopped"
	StreamPaused  = "paused"
	StreamResumed = "resumed"
)

// StreamStateEvent represents a change in one device's streaming state.
type StreamStateEvent struct {
	Serial    string    `json:"serial"`
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// Type returns the event type identifier for StreamStateEvent.
func (e StreamStateEvent) Type() uint32 { return TypeStreamState }

// FrameProgressEvent is published by a capture worker as frames accumulate.
type FrameProgressEvent struct {
	Serial     string    `json:"serial"`
	FrameCount uint64    `json:"frame_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// Type returns the event type identifier for FrameProgressEvent.
func (e FrameProgressEvent) Type() uint32 { return TypeFrameProgress }

// Worker exit reasons carried by WorkerExitEvent.
const (
	ExitShutdown    = "shutdown"
	ExitFrameLimit  = "frame_limit"
	ExitTimeout     = "timeout"
	ExitStartFailed = "start_failed"
)

// WorkerExitEvent is published when a capture worker terminates.
type WorkerExitEvent struct {
	Serial     string    `json:"serial"`
	Reason     string    `json:"reason"`
	FrameCount uint64    `json:"frame_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// Type returns the event type identifier for WorkerExitEvent.
func (e WorkerExitEvent) Type() uint32 { return TypeWorkerExit }

// PauseToggledEvent is published by the pause watcher after both devices
// have been stopped or restarted.
type PauseToggledEvent struct {
	Paused    bool      `json:"paused"`
	Timestamp time.Time `json:"timestamp"`
}

// Type returns the event type identifier for PauseToggledEvent.
func (e PauseToggledEvent) Type() uint32 { return TypePauseToggled }
