// Package logging provides structured logging with per-module log level
// configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to the file named by the LOGFILE environment variable, when set
//     and writable
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Retains recent entries in an in-memory ring buffer served by the
//     telemetry listener
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		File:   os.Getenv("LOGFILE"),
//		Modules: map[string]string{
//			"session": "debug",  // Per-module overrides
//			"config":  "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("session")
//	logger.Info("Devices opened", "serials", serials)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("worker").With("serial", serial)
//	logger.Info("Streams started")  // Includes serial in all logs
//
// # Runtime level changes
//
// SetModuleLevels applies new per-module levels without recreating loggers;
// the config watcher calls it when depthrig.toml changes.
//
// # Viewing Logs
//
// When running under systemd:
//
//	journalctl -t depthrig              # All depthrig logs
//	journalctl -t depthrig -f           # Follow live
//	journalctl -t depthrig MODULE=worker
package logging
