// Package device is the seam between the orchestrator and the sensor
// driver. Drivers register an Enumerator factory at init time; hosts built
// without a driver get the no-op enumerator, which reports zero devices.
package device

import (
	"log/slog"
	"sync"

	"github.com/depthrig/depthrig/internal/backend"
	"github.com/depthrig/depthrig/internal/frame"
	"github.com/depthrig/depthrig/internal/registration"
)

// Device is one opened depth camera. All methods are owned by a single
// goroutine except Start/Stop, which the pause watcher calls through a
// serialized path while no frame wait is in flight.
//
// Stop must be called before Close; closing a started device is undefined
// behavior in the driver.
type Device interface {
	// Start begins streaming both color and depth.
	Start() error

	// StartStreams begins streaming only the selected streams.
	StartStreams(color, depth bool) error

	// Stop halts streaming without releasing the device.
	Stop() error

	// Close releases the device. The device must be stopped first.
	Close() error

	Serial() string
	Firmware() string

	// Listen attaches a synchronized listener for the requested stream
	// types and returns it. One listener per device.
	Listen(types frame.Type) (frame.Listener, error)

	// Registration returns the alignment engine built from this device's
	// factory calibration.
	Registration() registration.Engine
}

// Enumerator discovers and opens devices. One exists per process, provided
// by the linked driver.
type Enumerator interface {
	// Enumerate returns the serial numbers of all connected devices.
	Enumerate() ([]string, error)

	// Open opens the device with the given serial. A nil backend opens
	// with the driver's default pipeline.
	Open(serial string, b backend.Backend) (Device, error)
}

// Factory builds a driver's enumerator.
type Factory func(logger *slog.Logger) Enumerator

var (
	driverMu   sync.RWMutex
	driverName = "none"
	driver     Factory = newNoop
)

// RegisterDriver installs a sensor driver. The last registered driver wins;
// drivers register from init() in build-tagged files.
func RegisterDriver(name string, f Factory) {
	driverMu.Lock()
	defer driverMu.Unlock()
	driverName = name
	driver = f
}

// NewEnumerator returns the registered driver's enumerator, falling back to
// the no-op enumerator when no driver is linked in.
func NewEnumerator(logger *slog.Logger) Enumerator {
	driverMu.RLock()
	name, f := driverName, driver
	driverMu.RUnlock()

	if logger != nil {
		logger.Debug("Using sensor driver", "driver", name)
	}
	return f(logger)
}

// DriverName returns the name of the registered driver.
func DriverName() string {
	driverMu.RLock()
	defer driverMu.RUnlock()
	return driverName
}
