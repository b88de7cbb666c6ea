package session

import (
	"context"
	"time"

	"github.com/depthrig/depthrig/internal/events"
)

// pauseWatcher consumes pause intents posted by TogglePause and performs
// the actual device stop/start calls. Doing non-trivial work on the signal
// path is unsafe, so the signal handler only posts the intent and this
// goroutine — the only place that calls Stop/Start while workers are live —
// serializes the toggles.
func (c *Controller) pauseWatcher(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.pauseCh:
		}

		if c.state.ShutdownRequested() {
			continue
		}

		if c.state.Paused() {
			c.resumeAll()
			c.state.setPaused(false)
		} else {
			c.pauseAll()
			c.state.setPaused(true)
		}
		c.bus.Publish(events.PauseToggledEvent{Paused: c.state.Paused(), Timestamp: time.Now()})
	}
}

func (c *Controller) pauseAll() {
	for _, slot := range c.slots {
		if err := slot.Device.Stop(); err != nil {
			c.logger.Warn("Failed to stop device for pause", "serial", slot.Serial, "error", err)
			continue
		}
		c.bus.Publish(events.StreamStateEvent{Serial: slot.Serial, State: events.StreamPaused, Timestamp: time.Now()})
	}
	c.logger.Info("Capture paused on both devices")
}

// resumeAll restarts streaming with the same stream selection the workers
// started with, so a pause/resume cycle restores the exact prior state.
func (c *Controller) resumeAll() {
	for _, slot := range c.slots {
		var err error
		if c.opts.EnableColor && c.opts.EnableDepth {
			err = slot.Device.Start()
		} else {
			err = slot.Device.StartStreams(c.opts.EnableColor, c.opts.EnableDepth)
		}
		if err != nil {
			c.logger.Warn("Failed to restart device after pause", "serial", slot.Serial, "error", err)
			continue
		}
		c.bus.Publish(events.StreamStateEvent{Serial: slot.Serial, State: events.StreamResumed, Timestamp: time.Now()})
	}
	c.logger.Info("Capture resumed on both devices")
}
