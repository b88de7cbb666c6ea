// Package telemetry exposes capture session metrics over Prometheus and an
// optional local HTTP listener.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesCaptured = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "depthrig",
		Subsystem: "capture",
		Name:      "frames",
		Help:      "Frames captured by a worker so far",
	}, []string{"serial"})

	frameTimeouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "depthrig",
		Subsystem: "capture",
		Name:      "frame_timeouts_total",
		Help:      "Frame waits that timed out and terminated a worker",
	}, []string{"serial"})

	workerExits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "depthrig",
		Subsystem: "capture",
		Name:      "worker_exits_total",
		Help:      "Capture worker terminations by reason",
	}, []string{"serial", "reason"})

	workersRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "depthrig",
		Subsystem: "session",
		Name:      "workers_running",
		Help:      "Capture workers currently streaming",
	})

	pauseToggles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "depthrig",
		Subsystem: "session",
		Name:      "pause_toggles_total",
		Help:      "Pause/resume transitions performed",
	})

	sessionPaused = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "depthrig",
		Subsystem: "session",
		Name:      "paused",
		Help:      "Whether capture is currently paused (0 or 1)",
	})

	// Local cache for the JSON status endpoint.
	statusCache   = make(map[string]*WorkerStatus)
	statusCacheMu sync.RWMutex
)

// WorkerStatus holds the current state of one capture worker.
type WorkerStatus struct {
	Serial     string `json:"serial"`
	State      string `json:"state"`
	FrameCount uint64 `json:"frame_count"`
	ExitReason string `json:"exit_reason,omitempty"`
}

func updateStatus(serial string, fn func(s *WorkerStatus)) {
	statusCacheMu.Lock()
	defer statusCacheMu.Unlock()
	s, ok := statusCache[serial]
	if !ok {
		s = &WorkerStatus{Serial: serial}
		statusCache[serial] = s
	}
	fn(s)
}

// SetFramesCaptured records a worker's cumulative frame count.
func SetFramesCaptured(serial string, count uint64) {
	framesCaptured.WithLabelValues(serial).Set(float64(count))
	updateStatus(serial, func(s *WorkerStatus) { s.FrameCount = count })
}

// SetStreamState records a device's streaming state transition.
func SetStreamState(serial, state string) {
	updateStatus(serial, func(s *WorkerStatus) { s.State = state })
}

// RecordWorkerStart marks one more worker as streaming.
func RecordWorkerStart() {
	workersRunning.Inc()
}

// RecordWorkerExit records a worker termination with its reason and final
// frame count. The running gauge only drops for workers that actually got
// their streams started.
func RecordWorkerExit(serial, reason string, frameCount uint64) {
	workerExits.WithLabelValues(serial, reason).Inc()
	SetFramesCaptured(serial, frameCount)

	statusCacheMu.Lock()
	s, ok := statusCache[serial]
	if !ok {
		s = &WorkerStatus{Serial: serial}
		statusCache[serial] = s
	}
	wasRunning := s.State != "" && s.State != "exited"
	s.State = "exited"
	s.ExitReason = reason
	statusCacheMu.Unlock()

	if wasRunning {
		workersRunning.Dec()
	}
}

// RecordFrameTimeout counts a timed-out frame wait for a device.
func RecordFrameTimeout(serial string) {
	frameTimeouts.WithLabelValues(serial).Inc()
}

// RecordPauseToggle records a pause or resume transition.
func RecordPauseToggle(paused bool) {
	pauseToggles.Inc()
	if paused {
		sessionPaused.Set(1)
	} else {
		sessionPaused.Set(0)
	}
}

// GetWorkerStatus returns the cached status for one device, or nil.
func GetWorkerStatus(serial string) *WorkerStatus {
	statusCacheMu.RLock()
	defer statusCacheMu.RUnlock()
	if s, ok := statusCache[serial]; ok {
		dup := *s
		return &dup
	}
	return nil
}

// GetAllWorkerStatus returns the cached status of every known device.
func GetAllWorkerStatus() []WorkerStatus {
	statusCacheMu.RLock()
	defer statusCacheMu.RUnlock()
	out := make([]WorkerStatus, 0, len(statusCache))
	for _, s := range statusCache {
		out = append(out, *s)
	}
	return out
}

// ResetStatus clears the status cache. Metrics registered with Prometheus
// keep their values; this only affects the JSON endpoint.
func ResetStatus() {
	statusCacheMu.Lock()
	defer statusCacheMu.Unlock()
	statusCache = make(map[string]*WorkerStatus)
}
