//go:build unix

package session

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// NotifySignals wires process signals into the session: SIGINT/SIGTERM
// request shutdown, SIGUSR1 toggles pause (`pkill -USR1 depthrig`). The
// forwarding goroutine only flips the atomic flag or posts the pause
// intent; no device call happens on this path.
func (c *Controller) NotifySignals(ctx context.Context) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)

	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGUSR1:
					c.TogglePause()
				default:
					c.state.RequestShutdown()
				}
			}
		}
	}()
}
