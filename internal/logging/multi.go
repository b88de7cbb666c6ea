package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans one record out to every active sink in the logging
// chain: console, the LOGFILE sink, the systemd journal, and the ring
// buffer. Sinks filter by their own level, so a record only reaches sinks
// that accept it.
type MultiHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler builds the fan-out over the given sinks. Initialize
// assembles the sink list and only constructs a MultiHandler when more
// than one sink is active.
func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	return &MultiHandler{sinks: sinks}
}

// Enabled reports whether any sink accepts the level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range m.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every sink that accepts its level. One
// failing sink does not stop delivery to the others; the failures come
// back joined.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range m.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs returns a fan-out over sinks carrying the extra attributes.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(m.sinks))
	for i, s := range m.sinks {
		sinks[i] = s.WithAttrs(attrs)
	}
	return &MultiHandler{sinks: sinks}
}

// WithGroup returns a fan-out over sinks carrying the group.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, len(m.sinks))
	for i, s := range m.sinks {
		sinks[i] = s.WithGroup(name)
	}
	return &MultiHandler{sinks: sinks}
}
