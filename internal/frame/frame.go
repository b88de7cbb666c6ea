package frame

import (
	"errors"
	"strings"
	"time"
)

// ErrTimeout is returned by Listener.WaitForNewFrame when no synchronized
// frame set arrives within the requested window.
var ErrTimeout = errors.New("timed out waiting for new frame")

// Type identifies a stream within a frame set. Values combine as a bitmask
// when requesting a listener.
type Type int

const (
	Color Type = 1 << iota
	Ir
	Depth
)

// String renders the stream name, or a "|" joined list for a combined
// mask, as used in logs and viewer labels.
func (t Type) String() string {
	if t == 0 {
		return "none"
	}
	var parts []string
	if t.Has(Color) {
		parts = append(parts, "color")
	}
	if t.Has(Ir) {
		parts = append(parts, "ir")
	}
	if t.Has(Depth) {
		parts = append(parts, "depth")
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// Has reports whether the bitmask includes the given stream.
func (t Type) Has(s Type) bool {
	return t&s != 0
}

// Frame is a single decoded image buffer. The pixel data is owned by the
// producing listener while the frame sits in a borrowed FrameSet, and by the
// frame itself otherwise (registration output buffers).
type Frame struct {
	Width         int
	Height        int
	BytesPerPixel int
	Data          []byte
	Sequence      uint32
	Timestamp     time.Time
}

// New allocates a frame with an owned pixel buffer.
func New(width, height, bytesPerPixel int) *Frame {
	return &Frame{
		Width:         width,
		Height:        height,
		BytesPerPixel: bytesPerPixel,
		Data:          make([]byte, width*height*bytesPerPixel),
	}
}

// Set is a synchronized bundle of frames captured at the same instant,
// keyed by stream type. Sets are borrowed from a Listener and must be
// released exactly once.
type Set map[Type]*Frame
