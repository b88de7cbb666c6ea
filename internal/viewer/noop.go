package viewer

import (
	"log/slog"

	"github.com/depthrig/depthrig/internal/frame"
)

// noop is the viewer used when no display implementation is linked in.
type noop struct {
	logger *slog.Logger
}

func newNoop(_ string, logger *slog.Logger) Viewer {
	return &noop{logger: logger}
}

func (n *noop) Push(label string, f *frame.Frame) {
	if n.logger != nil {
		n.logger.Debug("Viewer not available (no-op)", "label", label, "width", f.Width, "height", f.Height)
	}
}

func (n *noop) Render() bool { return false }

func (n *noop) Close() {}
