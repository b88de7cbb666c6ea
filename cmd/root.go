// Package cmd wires the command line to a capture session.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/depthrig/depthrig/internal/config"
	"github.com/depthrig/depthrig/internal/device"
	"github.com/depthrig/depthrig/internal/events"
	"github.com/depthrig/depthrig/internal/logging"
	"github.com/depthrig/depthrig/internal/session"
	"github.com/depthrig/depthrig/internal/systemd"
	"github.com/depthrig/depthrig/internal/telemetry"
	"github.com/depthrig/depthrig/internal/version"
	"github.com/depthrig/depthrig/internal/viewer"
)

// loggingLevels is the watched slice of the settings file.
type loggingLevels struct {
	Level   string
	Modules map[string]string
}

// NewRootCmd builds the depthrig root command. Flag parsing is disabled:
// the capture token grammar is positional and order sensitive (`-gpu=<id>`
// must precede the pipeline token), which pflag cannot express, so the raw
// argument list goes to the resolver untouched.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:                "depthrig [tokens]",
		Short:              "Synchronized capture from two depth cameras",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd, args)
		},
	}
	root.AddCommand(newVersionCmd())
	return root
}

func runCapture(cmd *cobra.Command, args []string) error {
	version.PrintBanner(cmd.ErrOrStderr(), os.Args[0])

	settings := config.DefaultSettings()
	if err := config.LoadSettings(&settings); err != nil {
		return err
	}

	logging.Initialize(logging.Config{
		Level:   settings.LoggingLevel,
		Format:  settings.LoggingFormat,
		File:    os.Getenv("LOGFILE"),
		Modules: settings.ModuleLevels(),
	})
	logger := logging.GetLogger("config")

	opts, err := config.Resolve(args, logger)
	if err != nil {
		logger.Error("Invalid arguments", "error", err)
		return err
	}
	if opts.HelpOnly {
		return nil
	}
	if opts.Viewer && !viewer.Available() {
		logger.Info("No viewer built in, running headless")
		opts.Viewer = false
	}

	// Log levels follow edits to the settings file while capture runs.
	watcher := config.NewConfigWatcher(settings.Config, func(path string) (loggingLevels, error) {
		level, modules := config.LoadLoggingLevels(path)
		return loggingLevels{Level: level, Modules: modules}, nil
	}, logger)
	watcher.OnReload(func(l loggingLevels) {
		logging.SetModuleLevels(l.Level, l.Modules)
	})
	if err := watcher.Start(); err != nil {
		logger.Warn("Config watcher unavailable, log levels are fixed", "error", err)
	} else {
		defer watcher.Stop()
	}

	bus := events.New()
	recorder := telemetry.NewRecorder(bus)
	defer recorder.Close()

	if settings.TelemetryListen != "" {
		srv := telemetry.NewServer(settings.TelemetryListen, bus, logging.GetLogger("telemetry"))
		srv.Start()
		defer srv.Stop()
	}

	logger.Info("Device driver", "driver", device.DriverName())
	enum := device.NewEnumerator(logging.GetLogger("device"))
	controller := session.New(opts, enum, bus, logging.GetLogger("session"))

	serials, err := controller.Discover()
	if err != nil {
		logger.Error("Device discovery failed", "error", err)
		return err
	}
	if err := controller.PairAndOpen(serials); err != nil {
		logger.Error("Failed to open device pair", "error", err)
		return err
	}

	notifier := systemd.NewNotifier(logging.GetLogger("session"))
	unsubPause := bus.Subscribe(func(e events.PauseToggledEvent) {
		notifier.Paused(e.Paused)
	})
	defer unsubPause()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	controller.NotifySignals(ctx)

	notifier.Ready(serials)
	controller.Run(ctx)
	notifier.Stopping()
	return nil
}
