package session

import (
	"context"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func (d *fakeDevice) snapshot() (started bool, startCalls, stopCalls int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started, d.startCalls, d.stopCalls
}

func TestPauseResumeRestoresStreaming(t *testing.T) {
	enum := newFakeEnumerator(nil, "a", "b")
	enum.frameDelay = 5 * time.Millisecond

	c := newTestController(testOptions(), enum)
	if err := c.PairAndOpen([]string{"a", "b"}); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		c.Run(context.Background())
		close(done)
	}()

	waitFor(t, "workers to start streaming", func() bool {
		for _, serial := range []string{"a", "b"} {
			if started, _, _ := enum.device(serial).snapshot(); !started {
				return false
			}
		}
		return true
	})

	c.TogglePause()
	waitFor(t, "pause to take effect", func() bool { return c.State().Paused() })
	for _, serial := range []string{"a", "b"} {
		started, _, stopCalls := enum.device(serial).snapshot()
		if started {
			t.Errorf("device %s still streaming while paused", serial)
		}
		if stopCalls == 0 {
			t.Errorf("device %s was never stopped for the pause", serial)
		}
	}

	c.TogglePause()
	waitFor(t, "resume to take effect", func() bool { return !c.State().Paused() })
	for _, serial := range []string{"a", "b"} {
		started, startCalls, _ := enum.device(serial).snapshot()
		if !started {
			t.Errorf("device %s not streaming after resume", serial)
		}
		if startCalls < 2 {
			t.Errorf("device %s startCalls = %d after resume, want >= 2", serial, startCalls)
		}
	}

	c.State().RequestShutdown()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("session did not shut down after a pause/resume cycle")
	}
}

func TestPauseRapidTogglesStayConsistent(t *testing.T) {
	enum := newFakeEnumerator(nil, "a", "b")
	enum.frameDelay = 2 * time.Millisecond

	c := newTestController(testOptions(), enum)
	if err := c.PairAndOpen([]string{"a", "b"}); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		c.Run(context.Background())
		close(done)
	}()

	// Intents posted while one is pending are dropped, never queued, so a
	// burst of toggles must not wedge the watcher or the devices.
	for i := 0; i < 20; i++ {
		c.TogglePause()
		time.Sleep(time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	if c.State().Paused() {
		c.TogglePause()
		waitFor(t, "final resume", func() bool { return !c.State().Paused() })
	}

	c.State().RequestShutdown()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("session did not shut down after rapid pause toggles")
	}

	for _, serial := range []string{"a", "b"} {
		dev := enum.device(serial)
		dev.mu.Lock()
		closed := dev.closed
		dev.mu.Unlock()
		if !closed {
			t.Errorf("device %s not closed after session end", serial)
		}
	}
}

func TestTeardownWaitsForPauseWatcher(t *testing.T) {
	rec := &recorder{}
	enum := newFakeEnumerator(rec, "a", "b")
	enum.frameDelay = 2 * time.Millisecond

	c := newTestController(testOptions(), enum)
	if err := c.PairAndOpen([]string{"a", "b"}); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		c.Run(context.Background())
		close(done)
	}()

	waitFor(t, "workers to start streaming", func() bool {
		started, _, _ := enum.device("a").snapshot()
		return started
	})

	c.TogglePause()
	waitFor(t, "pause to take effect", func() bool { return c.State().Paused() })

	// Hold the resume inside the first device's start call while the
	// workers drain and Run reaches teardown.
	gate := make(chan struct{})
	enum.device("a").setStartGate(gate)
	c.TogglePause()
	waitFor(t, "watcher to block in the start call", func() bool {
		return enum.device("a").gateWaiters() > 0
	})

	c.State().RequestShutdown()
	time.Sleep(50 * time.Millisecond)

	select {
	case <-done:
		t.Fatal("Run finished while the pause watcher was still mid-resume")
	default:
	}

	enum.device("a").setStartGate(nil)
	enum.device("b").setStartGate(nil)
	close(gate)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("session did not finish after the watcher was released")
	}

	// No device may be started again once teardown has closed it.
	for _, serial := range []string{"a", "b"} {
		lastStart := rec.lastIndex(serial + ":start")
		closeIdx := rec.index(serial + ":close")
		if closeIdx == -1 {
			t.Fatalf("device %s was never closed: %v", serial, rec.entries)
		}
		if lastStart > closeIdx {
			t.Errorf("device %s was started after teardown closed it: %v", serial, rec.entries)
		}
	}
}

func TestPauseIgnoredAfterShutdown(t *testing.T) {
	enum := newFakeEnumerator(nil, "a", "b")

	c := newTestController(testOptions(), enum)
	if err := c.PairAndOpen([]string{"a", "b"}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.pauseWatcher(ctx)

	c.State().RequestShutdown()
	c.TogglePause()
	time.Sleep(50 * time.Millisecond)

	if c.State().Paused() {
		t.Error("pause took effect after shutdown was requested")
	}
	for _, serial := range []string{"a", "b"} {
		if _, _, stopCalls := enum.device(serial).snapshot(); stopCalls != 0 {
			t.Errorf("device %s stopped by a pause after shutdown", serial)
		}
	}
}
