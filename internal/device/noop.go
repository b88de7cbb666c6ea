package device

import (
	"fmt"
	"log/slog"

	"github.com/depthrig/depthrig/internal/backend"
)

// noop implements Enumerator for hosts without a sensor driver linked in.
// It reports no connected devices, so discovery fails cleanly instead of
// panicking deep in a capture loop.
type noop struct {
	logger *slog.Logger
}

func newNoop(logger *slog.Logger) Enumerator {
	return &noop{logger: logger}
}

func (n *noop) Enumerate() ([]string, error) {
	if n.logger != nil {
		n.logger.Debug("No sensor driver linked in, enumeration is empty")
	}
	return nil, nil
}

func (n *noop) Open(serial string, _ backend.Backend) (Device, error) {
	return nil, fmt.Errorf("open %s: no sensor driver available", serial)
}
