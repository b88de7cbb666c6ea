// Package backend selects the packet-processing pipeline attached to each
// device slot. The CPU pipeline is always compiled in; GPU-class pipelines
// register themselves from build-tagged driver files and simply stay
// unavailable otherwise.
package backend

import (
	"fmt"
	"sync"
)

// Kind identifies a pipeline implementation.
type Kind int

const (
	// Default lets the device driver pick its own pipeline.
	Default Kind = iota
	CPU
	OpenGL
	OpenCL
	OpenCLKde
	CUDA
	CUDAKde
)

var kindNames = map[Kind]string{
	Default:   "default",
	CPU:       "cpu",
	OpenGL:    "gl",
	OpenCL:    "cl",
	OpenCLKde: "clkde",
	CUDA:      "cuda",
	CUDAKde:   "cudakde",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// GPUClass reports whether the kind targets a specific GPU device and thus
// honors a device id.
func (k Kind) GPUClass() bool {
	switch k {
	case OpenCL, OpenCLKde, CUDA, CUDAKde:
		return true
	default:
		return false
	}
}

// KindFromToken maps a command-line token to a pipeline kind.
func KindFromToken(token string) (Kind, bool) {
	for k, name := range kindNames {
		if k != Default && name == token {
			return k, true
		}
	}
	return Default, false
}

// Backend is the opaque packet-processing pipeline handed to a device on
// open. Its internals belong to the sensor driver.
type Backend interface {
	// Kind returns the pipeline kind this backend implements.
	Kind() Kind
}

// Constructor builds a backend instance. deviceID is -1 when no explicit
// GPU device was requested.
type Constructor func(deviceID int) (Backend, error)

var (
	registryMu sync.RWMutex
	registry   = map[Kind]Constructor{}
)

// RegisterKind makes a pipeline kind constructible. Called from driver
// init() functions; the CPU pipeline registers itself unconditionally.
func RegisterKind(k Kind, c Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[k] = c
}

// Supported reports whether the kind was compiled in.
func Supported(k Kind) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[k]
	return ok
}

// New constructs a backend of the given kind. The device id must be fixed
// before construction; it is ignored by non-GPU kinds.
func New(k Kind, deviceID int) (Backend, error) {
	registryMu.RLock()
	c, ok := registry[k]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("pipeline %q is not supported in this build", k)
	}
	if !k.GPUClass() {
		deviceID = -1
	}
	return c(deviceID)
}
