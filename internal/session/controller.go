package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/depthrig/depthrig/internal/backend"
	"github.com/depthrig/depthrig/internal/config"
	"github.com/depthrig/depthrig/internal/device"
	"github.com/depthrig/depthrig/internal/events"
)

// defaultWaitTimeout bounds each worker's blocking frame wait. Repeated
// timeouts usually mean a disconnected device, so a timeout is terminal for
// the worker rather than retried.
const defaultWaitTimeout = 10 * time.Second

// Slot pairs one opened device with its backend and serial. Exactly two
// slots exist per session.
type Slot struct {
	Device  device.Device
	Backend backend.Backend // nil when the driver default pipeline is used
	Serial  string
}

// Controller owns the session lifecycle: discovery, pairing, the two
// capture workers, and ordered teardown.
type Controller struct {
	opts   *config.Options
	enum   device.Enumerator
	bus    *events.Bus
	logger *slog.Logger
	state  *State

	slots   [2]*Slot
	pauseCh chan struct{}

	// WaitTimeout is the per-iteration frame wait bound. Tests shorten it;
	// it must be fixed before Run.
	WaitTimeout time.Duration
}

// New creates a session controller for the given capture options.
func New(opts *config.Options, enum device.Enumerator, bus *events.Bus, logger *slog.Logger) *Controller {
	return &Controller{
		opts:        opts,
		enum:        enum,
		bus:         bus,
		logger:      logger,
		state:       NewState(),
		pauseCh:     make(chan struct{}, 1),
		WaitTimeout: defaultWaitTimeout,
	}
}

// State returns the shared session state handle.
func (c *Controller) State() *State {
	return c.state
}

// Discover enumerates connected devices and selects the pair to open.
// Returns ErrNoDeviceFound with zero devices and ErrInsufficientDevices
// with exactly one.
func (c *Controller) Discover() ([]string, error) {
	serials, err := c.enum.Enumerate()
	if err != nil {
		return nil, err
	}

	switch len(serials) {
	case 0:
		return nil, ErrNoDeviceFound
	case 1:
		return nil, ErrInsufficientDevices
	}

	selected := serials[:2]
	c.logger.Info("Devices discovered", "connected", len(serials), "selected", selected)
	c.bus.Publish(events.DeviceDiscoveryEvent{
		Serials:   serials,
		Selected:  selected,
		Timestamp: time.Now(),
	})
	return selected, nil
}

// PairAndOpen opens both selected devices, attaching a freshly constructed
// backend of the configured kind to each, or the driver default when none
// was selected. On partial failure the already-opened device is closed
// before the error is returned, so no handle leaks.
func (c *Controller) PairAndOpen(serials []string) error {
	for i, serial := range serials[:2] {
		var b backend.Backend
		if c.opts.Backend != backend.Default {
			var err error
			b, err = backend.New(c.opts.Backend, c.opts.BackendDeviceID)
			if err != nil {
				c.closeOpened()
				return err
			}
		}

		dev, err := c.enum.Open(serial, b)
		if err != nil {
			c.closeOpened()
			return &OpenError{Serial: serial, Err: err}
		}
		c.slots[i] = &Slot{Device: dev, Backend: b, Serial: serial}
	}

	c.logger.Info("Successfully opened both devices",
		"serial_1", c.slots[0].Serial, "serial_2", c.slots[1].Serial,
		"pipeline", c.opts.Backend.String())
	return nil
}

// closeOpened closes any slot opened so far. Devices here were never
// started, so a bare close is safe.
func (c *Controller) closeOpened() {
	for i, slot := range c.slots {
		if slot == nil {
			continue
		}
		if err := slot.Device.Close(); err != nil {
			c.logger.Warn("Failed to close device during open rollback", "serial", slot.Serial, "error", err)
		}
		c.slots[i] = nil
	}
}

// TogglePause posts a pause/resume intent. Non-blocking and safe from the
// signal-forwarding goroutine: while an intent is pending, further toggles
// are dropped instead of queued.
func (c *Controller) TogglePause() {
	select {
	case c.pauseCh <- struct{}{}:
	default:
	}
}

// Run drives the capture session to completion: it starts the pause
// watcher, spawns one capture worker per slot, joins both workers, and only
// then stops and closes the devices, in that order. PairAndOpen must have
// succeeded first.
//
// Cancelling ctx requests shutdown; Run still returns only after both
// workers have come back and the devices are released.
func (c *Controller) Run(ctx context.Context) {
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()

	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		c.pauseWatcher(watchCtx)
	}()
	go func() {
		select {
		case <-ctx.Done():
			c.state.RequestShutdown()
		case <-watchCtx.Done():
		}
	}()

	var wg sync.WaitGroup
	for _, slot := range c.slots {
		w := &worker{
			slot:        slot,
			opts:        c.opts,
			state:       c.state,
			bus:         c.bus,
			logger:      c.logger.With("serial", slot.Serial),
			waitTimeout: c.WaitTimeout,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run()
		}()
	}

	// Join barrier: devices must not be stopped or closed while a worker
	// may still be blocked in a frame wait.
	wg.Wait()

	// The pause watcher may be mid stop/start on a device. Mark the
	// session as shutting down so late intents are skipped, then wait for
	// the watcher to return before touching the devices.
	c.state.RequestShutdown()
	cancelWatch()
	<-watcherDone

	for _, slot := range c.slots {
		if err := slot.Device.Stop(); err != nil {
			c.logger.Warn("Failed to stop device", "serial", slot.Serial, "error", err)
		}
		c.bus.Publish(events.StreamStateEvent{Serial: slot.Serial, State: events.StreamStopped, Timestamp: time.Now()})
	}
	for _, slot := range c.slots {
		if err := slot.Device.Close(); err != nil {
			c.logger.Warn("Failed to close device", "serial", slot.Serial, "error", err)
		}
	}
	c.logger.Info("Session finished")
}
