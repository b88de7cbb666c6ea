// Package registration defines the contract for the geometric alignment
// engine that maps color pixels onto the depth image. The math itself lives
// in the sensor driver; this package carries the call surface and the
// reusable output buffers.
package registration

import "github.com/depthrig/depthrig/internal/frame"

// Depth-sensor native resolution; registration output is always this shape.
const (
	outWidth  = 512
	outHeight = 424
	outBPP    = 4
)

// Engine applies undistortion to the depth frame and registers the color
// frame onto the depth geometry, writing into the caller's Pair.
type Engine interface {
	Apply(color, depth *frame.Frame, p *Pair) error
}

// Pair holds the two registration output buffers. A worker allocates one
// pair up front and reuses it every iteration, so the hot loop never
// allocates frame memory.
type Pair struct {
	Undistorted *frame.Frame
	Registered  *frame.Frame
}

// NewPair allocates the fixed-size output buffers.
func NewPair() *Pair {
	return &Pair{
		Undistorted: frame.New(outWidth, outHeight, outBPP),
		Registered:  frame.New(outWidth, outHeight, outBPP),
	}
}
