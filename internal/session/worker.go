package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/depthrig/depthrig/internal/config"
	"github.com/depthrig/depthrig/internal/events"
	"github.com/depthrig/depthrig/internal/frame"
	"github.com/depthrig/depthrig/internal/registration"
	"github.com/depthrig/depthrig/internal/viewer"
)

// progressInterval is how often the headless loop reports its frame count.
const progressInterval = 100

// worker runs the capture loop for one device slot. Everything it touches
// except the session state is exclusively its own: device, listener,
// registration buffers, viewer.
type worker struct {
	slot        *Slot
	opts        *config.Options
	state       *State
	bus         *events.Bus
	logger      *slog.Logger
	waitTimeout time.Duration
}

// run executes the worker until shutdown, frame limit, timeout, or a start
// failure. It never stops or closes its device; that happens in the
// controller after the join. Worker-local failures are logged and swallowed
// here rather than returned across the goroutine boundary.
func (w *worker) run() {
	dev := w.slot.Device

	// Combined start when both streams are enabled, selective otherwise.
	var startErr error
	if w.opts.EnableColor && w.opts.EnableDepth {
		startErr = dev.Start()
	} else {
		startErr = dev.StartStreams(w.opts.EnableColor, w.opts.EnableDepth)
	}
	if startErr != nil {
		w.logger.Error("Failed to start streams", "error", startErr)
		w.exit(events.ExitStartFailed, 0)
		return
	}
	w.bus.Publish(events.StreamStateEvent{Serial: w.slot.Serial, State: events.StreamStarted, Timestamp: time.Now()})

	listener, err := dev.Listen(w.opts.StreamTypes())
	if err != nil {
		w.logger.Error("Failed to attach frame listener", "error", err)
		w.exit(events.ExitStartFailed, 0)
		return
	}

	w.logger.Info("Capture started", "firmware", dev.Firmware(), "streams", w.opts.StreamTypes().String())

	var (
		engine registration.Engine
		pair   *registration.Pair
	)
	if w.opts.EnableColor && w.opts.EnableDepth {
		engine = dev.Registration()
		pair = registration.NewPair()
	}

	var view viewer.Viewer
	if w.opts.Viewer {
		view = viewer.New(w.slot.Serial, w.logger)
		defer view.Close()
	}

	var framecount uint64
	for !w.state.ShutdownRequested() && (w.opts.FrameLimit == 0 || framecount < w.opts.FrameLimit) {
		set, err := listener.WaitForNewFrame(w.waitTimeout)
		if err != nil {
			if errors.Is(err, frame.ErrTimeout) {
				w.logger.Error("Timed out waiting for a new frame", "timeout", w.waitTimeout)
			} else {
				w.logger.Error("Frame wait failed", "error", err)
			}
			// A dead stream on one device strands the whole pairing, so
			// the sibling worker is told to wind down too.
			w.state.RequestShutdown()
			w.exit(events.ExitTimeout, framecount)
			return
		}

		framecount++
		procErr := frame.Released(listener, set, func(s frame.Set) error {
			if engine != nil {
				if applyErr := engine.Apply(s[frame.Color], s[frame.Depth], pair); applyErr != nil {
					w.logger.Warn("Registration failed for frame", "error", applyErr)
				}
			}

			if view == nil {
				if framecount%progressInterval == 0 {
					w.logger.Info("The viewer is turned off, still receiving frames. Ctrl-C to stop.",
						"frame_count", framecount)
					w.bus.Publish(events.FrameProgressEvent{
						Serial:     w.slot.Serial,
						FrameCount: framecount,
						Timestamp:  time.Now(),
					})
				}
				return nil
			}

			if w.opts.EnableColor {
				view.Push("color", s[frame.Color])
			}
			if w.opts.EnableDepth {
				view.Push("ir", s[frame.Ir])
				view.Push("depth", s[frame.Depth])
			}
			if pair != nil {
				view.Push("registered", pair.Registered)
			}
			if view.Render() {
				// The close request must reach the other worker as well,
				// so it is folded into the shared flag instead of handled
				// locally.
				w.state.RequestShutdown()
			}
			return nil
		})
		if procErr != nil {
			w.logger.Warn("Frame processing failed", "error", procErr)
		}
	}

	reason := events.ExitShutdown
	if w.opts.FrameLimit != 0 && framecount >= w.opts.FrameLimit {
		// The limit is symmetric across both slots, so each worker caps
		// itself; no global flag is needed for the session to end.
		reason = events.ExitFrameLimit
	}
	w.exit(reason, framecount)
}

func (w *worker) exit(reason string, framecount uint64) {
	w.logger.Info("Capture worker terminated", "reason", reason, "frame_count", framecount)
	w.bus.Publish(events.WorkerExitEvent{
		Serial:     w.slot.Serial,
		Reason:     reason,
		FrameCount: framecount,
		Timestamp:  time.Now(),
	})
}
