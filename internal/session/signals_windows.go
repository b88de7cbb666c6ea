//go:build windows

package session

import (
	"context"
	"os"
	"os/signal"
)

// NotifySignals wires interrupt signals into the session. Pause/resume has
// no signal trigger on Windows; only shutdown is available.
func (c *Controller) NotifySignals(ctx context.Context) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-ctx.Done():
		case <-sigCh:
			c.state.RequestShutdown()
		}
	}()
}
