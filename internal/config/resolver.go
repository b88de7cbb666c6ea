package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/depthrig/depthrig/internal/backend"
	"github.com/depthrig/depthrig/internal/frame"
)

// Configuration errors. Resolution fails hard on these; everything else in
// the token grammar is a warning.
var (
	ErrBothStreamsDisabled  = errors.New("disabling both color and depth streams is not allowed")
	ErrDeviceIDAfterBackend = errors.New("-gpu device id must be specified before the pipeline argument")
	ErrBadFrameLimit        = errors.New("invalid frame count")
)

// Options is the immutable capture configuration produced by Resolve. Both
// device slots always share one configuration; per-device asymmetry is not
// supported.
type Options struct {
	// Backend is the selected pipeline kind; Default when no token chose one.
	Backend backend.Kind

	// BackendDeviceID is the GPU device id from -gpu=<id>, or -1. Only
	// meaningful for GPU-class backends and fixed before construction.
	BackendDeviceID int

	EnableColor bool
	EnableDepth bool
	Viewer      bool

	// FrameLimit caps frames per worker; 0 means unlimited.
	FrameLimit uint64

	// HelpOnly is set by help/version tokens: print the banner and exit
	// without touching any device.
	HelpOnly bool
}

// StreamTypes returns the listener stream mask for the enabled streams.
// Depth capture always carries the IR stream alongside.
func (o *Options) StreamTypes() frame.Type {
	var t frame.Type
	if o.EnableColor {
		t |= frame.Color
	}
	if o.EnableDepth {
		t |= frame.Ir | frame.Depth
	}
	return t
}

// Resolve parses the ordered command-line tokens into capture options.
// Later tokens override earlier ones except where the grammar is order
// sensitive: -gpu=<id> must precede the pipeline token, and the first
// supported pipeline token wins.
func Resolve(tokens []string, logger *slog.Logger) (*Options, error) {
	opts := &Options{
		Backend:         backend.Default,
		BackendDeviceID: -1,
		EnableColor:     true,
		EnableDepth:     true,
		Viewer:          true,
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok == "-help" || tok == "--help" || tok == "-h" ||
			tok == "-v" || tok == "-version" || tok == "--version":
			opts.HelpOnly = true
			return opts, nil

		case strings.HasPrefix(tok, "-gpu="):
			if opts.Backend != backend.Default {
				return nil, ErrDeviceIDAfterBackend
			}
			id, err := strconv.Atoi(tok[len("-gpu="):])
			if err != nil {
				return nil, fmt.Errorf("invalid -gpu device id %q: %w", tok[len("-gpu="):], err)
			}
			opts.BackendDeviceID = id

		case tok == "-noviewer" || tok == "--noviewer":
			opts.Viewer = false

		case tok == "-norgb" || tok == "--norgb":
			opts.EnableColor = false

		case tok == "-nodepth" || tok == "--nodepth":
			opts.EnableDepth = false

		case tok == "-frames":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("%w: -frames requires a value", ErrBadFrameLimit)
			}
			n, err := strconv.ParseUint(tokens[i], 10, 64)
			if err != nil || n == 0 {
				return nil, fmt.Errorf("%w: %q", ErrBadFrameLimit, tokens[i])
			}
			opts.FrameLimit = n

		case isDigits(tok):
			// Legacy serial-number position; pairing always takes the
			// first two enumerated devices.

		default:
			if kind, ok := backend.KindFromToken(tok); ok {
				if opts.Backend != backend.Default {
					break // first selection wins
				}
				if !backend.Supported(kind) {
					logger.Warn("Pipeline is not supported in this build", "pipeline", kind.String())
					break
				}
				opts.Backend = kind
			} else {
				logger.Warn("Unknown argument", "arg", tok)
			}
		}
	}

	if !opts.EnableColor && !opts.EnableDepth {
		return nil, ErrBothStreamsDisabled
	}
	return opts, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
