package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/depthrig/depthrig/internal/events"
	"github.com/depthrig/depthrig/internal/logging"
)

// Server is the optional local telemetry listener. It serves Prometheus
// metrics, the in-memory log buffer, a JSON status summary, and a live
// event stream. Disabled entirely when no listen address is configured.
type Server struct {
	server    *http.Server
	bus       *events.Bus
	logger    *slog.Logger
	running   bool
	runningMu sync.Mutex
}

// NewServer builds a telemetry server bound to addr.
func NewServer(addr string, bus *events.Bus, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
			// No WriteTimeout: /events streams until the client
			// disconnects.
			ReadTimeout: 10 * time.Second,
		},
		bus:    bus,
		logger: logger,
	}

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/logs", s.handleLogs)
	mux.HandleFunc("/events", s.handleEvents)
	return s
}

// Start begins serving in the background. Listener failures are logged,
// not fatal; capture continues without telemetry.
func (s *Server) Start() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return
	}
	s.running = true

	s.logger.Info("Telemetry listener started", "addr", s.server.Addr)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Telemetry listener failed", "error", err)
		}
	}()
}

// Stop shuts the listener down, waiting briefly for in-flight requests.
func (s *Server) Stop() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"workers": GetAllWorkerStatus(),
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := []logging.Entry{}
	if buf := logging.GetBuffer(); buf != nil {
		entries = buf.Snapshot()
	}
	writeJSON(w, map[string]any{
		"entries": entries,
	})
}

// handleEvents streams session events over SSE until the client
// disconnects or the server shuts down.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventCh := make(chan any, 10)
	unsubscribers := []func(){
		events.SubscribeToChannel[events.DeviceDiscoveryEvent](s.bus, eventCh),
		events.SubscribeToChannel[events.StreamStateEvent](s.bus, eventCh),
		events.SubscribeToChannel[events.FrameProgressEvent](s.bus, eventCh),
		events.SubscribeToChannel[events.WorkerExitEvent](s.bus, eventCh),
		events.SubscribeToChannel[events.PauseToggledEvent](s.bus, eventCh),
	}
	defer func() {
		for _, unsub := range unsubscribers {
			unsub()
		}
	}()

	// Subscriptions are live once the response headers go out.
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-eventCh:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventName(ev), data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func eventName(ev any) string {
	switch ev.(type) {
	case events.DeviceDiscoveryEvent:
		return "device-discovery"
	case events.StreamStateEvent:
		return "stream-state"
	case events.FrameProgressEvent:
		return "frame-progress"
	case events.WorkerExitEvent:
		return "worker-exit"
	case events.PauseToggledEvent:
		return "pause-toggled"
	default:
		return "event"
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
