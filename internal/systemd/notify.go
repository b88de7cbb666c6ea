// Package systemd reports capture state to the service manager when
// depthrig runs as a Type=notify unit. Outside systemd every call is a
// no-op.
package systemd

import (
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier sends sd_notify state updates.
type Notifier struct {
	logger *slog.Logger
}

// NewNotifier returns a notifier logging through the given logger.
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

func (n *Notifier) send(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		n.logger.Warn("sd_notify failed", "state", state, "error", err)
		return
	}
	if sent {
		n.logger.Debug("sd_notify", "state", state)
	}
}

// Ready signals that both devices are open and capture is starting.
func (n *Notifier) Ready(serials []string) {
	n.send(daemon.SdNotifyReady)
	n.Status(fmt.Sprintf("capturing from %d devices", len(serials)))
}

// Status publishes a free-form status line.
func (n *Notifier) Status(status string) {
	n.send("STATUS=" + status)
}

// Paused reflects a pause or resume transition in the unit status.
func (n *Notifier) Paused(paused bool) {
	if paused {
		n.Status("capture paused")
	} else {
		n.Status("capturing")
	}
}

// Stopping signals teardown has begun.
func (n *Notifier) Stopping() {
	n.send(daemon.SdNotifyStopping)
}
