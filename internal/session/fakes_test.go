package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/depthrig/depthrig/internal/backend"
	"github.com/depthrig/depthrig/internal/device"
	"github.com/depthrig/depthrig/internal/frame"
	"github.com/depthrig/depthrig/internal/registration"
)

func sessionTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder collects lifecycle entries across goroutines for order checks.
type recorder struct {
	mu      sync.Mutex
	entries []string
}

func (r *recorder) add(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recorder) index(entry string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e == entry {
			return i
		}
	}
	return -1
}

func (r *recorder) lastIndex(entry string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i] == entry {
			return i
		}
	}
	return -1
}

// fakeListener simulates a driver's pooled synchronized listener. It
// delivers up to maxFrames sets (0 = unlimited) and then times out, and it
// accounts every borrow and return.
type fakeListener struct {
	types      frame.Type
	frameDelay time.Duration
	maxFrames  int

	mu            sync.Mutex
	delivered     int
	outstanding   int
	released      int
	doubleRelease bool
}

func (l *fakeListener) WaitForNewFrame(timeout time.Duration) (frame.Set, error) {
	if l.frameDelay > 0 {
		time.Sleep(l.frameDelay)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxFrames > 0 && l.delivered >= l.maxFrames {
		return nil, frame.ErrTimeout
	}
	l.delivered++
	l.outstanding++

	set := frame.Set{}
	if l.types.Has(frame.Color) {
		set[frame.Color] = frame.New(1920, 1080, 4)
	}
	if l.types.Has(frame.Ir) {
		set[frame.Ir] = frame.New(512, 424, 4)
	}
	if l.types.Has(frame.Depth) {
		set[frame.Depth] = frame.New(512, 424, 4)
	}
	return set, nil
}

func (l *fakeListener) Release(_ frame.Set) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.outstanding == 0 {
		l.doubleRelease = true
		return
	}
	l.outstanding--
	l.released++
}

func (l *fakeListener) stats() (delivered, released, outstanding int, double bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.delivered, l.released, l.outstanding, l.doubleRelease
}

// fakeEngine counts registration applications.
type fakeEngine struct {
	mu      sync.Mutex
	applied int
}

func (e *fakeEngine) Apply(color, depth *frame.Frame, p *registration.Pair) error {
	if color == nil || depth == nil {
		return errors.New("registration needs both frames")
	}
	e.mu.Lock()
	e.applied++
	e.mu.Unlock()
	copy(p.Registered.Data, color.Data)
	copy(p.Undistorted.Data, depth.Data)
	return nil
}

// fakeDevice simulates one opened depth camera.
type fakeDevice struct {
	serial     string
	rec        *recorder
	startErr   error
	frameDelay time.Duration
	maxFrames  int

	mu            sync.Mutex
	started       bool
	closed        bool
	startCalls    int
	stopCalls     int
	listener      *fakeListener
	engine        *fakeEngine
	listenTypes   frame.Type
	waitAfterStop bool
	startGate     chan struct{}
	gateArrivals  int
}

// setStartGate makes the next StartStreams call block until the channel is
// closed, to hold a caller inside the device start path.
func (d *fakeDevice) setStartGate(gate chan struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.startGate = gate
}

func (d *fakeDevice) gateWaiters() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gateArrivals
}

func newFakeDevice(serial string, rec *recorder) *fakeDevice {
	return &fakeDevice{serial: serial, rec: rec, engine: &fakeEngine{}}
}

func (d *fakeDevice) Start() error {
	return d.StartStreams(true, true)
}

func (d *fakeDevice) StartStreams(_, _ bool) error {
	d.mu.Lock()
	gate := d.startGate
	if gate != nil {
		d.gateArrivals++
	}
	d.mu.Unlock()
	if gate != nil {
		<-gate
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.startErr != nil {
		return d.startErr
	}
	d.started = true
	d.startCalls++
	if d.rec != nil {
		d.rec.add(d.serial + ":start")
	}
	return nil
}

func (d *fakeDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = false
	d.stopCalls++
	if d.rec != nil {
		d.rec.add(d.serial + ":stop")
	}
	return nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return fmt.Errorf("close called on started device %s", d.serial)
	}
	d.closed = true
	if d.rec != nil {
		d.rec.add(d.serial + ":close")
	}
	return nil
}

func (d *fakeDevice) Serial() string   { return d.serial }
func (d *fakeDevice) Firmware() string { return "4.0.3911.0" }

func (d *fakeDevice) Listen(types frame.Type) (frame.Listener, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listenTypes = types
	d.listener = &fakeListener{
		types:      types,
		frameDelay: d.frameDelay,
		maxFrames:  d.maxFrames,
	}
	return &guardedListener{device: d, inner: d.listener}, nil
}

func (d *fakeDevice) Registration() registration.Engine { return d.engine }

// guardedListener flags frame waits that happen after the device was
// stopped, which would mean the join barrier was violated.
type guardedListener struct {
	device *fakeDevice
	inner  *fakeListener
}

func (g *guardedListener) WaitForNewFrame(timeout time.Duration) (frame.Set, error) {
	g.device.mu.Lock()
	teardownStarted := g.device.stopCalls > 0 && !g.device.started
	if teardownStarted {
		g.device.waitAfterStop = true
	}
	g.device.mu.Unlock()
	return g.inner.WaitForNewFrame(timeout)
}

func (g *guardedListener) Release(s frame.Set) {
	g.inner.Release(s)
}

// fakeEnumerator hands out fakeDevices for a fixed serial list.
type fakeEnumerator struct {
	serials  []string
	enumErr  error
	openErrs map[string]error
	rec      *recorder

	frameDelay time.Duration
	maxFrames  int
	startErrs  map[string]error

	mu     sync.Mutex
	opened map[string]*fakeDevice
}

func newFakeEnumerator(rec *recorder, serials ...string) *fakeEnumerator {
	return &fakeEnumerator{
		serials:   serials,
		rec:       rec,
		openErrs:  map[string]error{},
		startErrs: map[string]error{},
		opened:    map[string]*fakeDevice{},
	}
}

func (e *fakeEnumerator) Enumerate() ([]string, error) {
	if e.enumErr != nil {
		return nil, e.enumErr
	}
	return e.serials, nil
}

func (e *fakeEnumerator) Open(serial string, _ backend.Backend) (device.Device, error) {
	if err := e.openErrs[serial]; err != nil {
		return nil, err
	}
	d := newFakeDevice(serial, e.rec)
	d.frameDelay = e.frameDelay
	d.maxFrames = e.maxFrames
	d.startErr = e.startErrs[serial]

	e.mu.Lock()
	e.opened[serial] = d
	e.mu.Unlock()
	return d, nil
}

func (e *fakeEnumerator) device(serial string) *fakeDevice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opened[serial]
}
