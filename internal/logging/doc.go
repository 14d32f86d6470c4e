// Package logging provides structured logging with per-module log level
// configuration.
//
// The logging system uses Go's slog package with automatic output routing:
//   - stdout (text or json format)
//   - systemd journal when available (Linux systems with journald)
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"pipeline": "debug",
//			"encoders": "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("pipeline")
//	logger.Info("render started", "frames", total)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("ffmpeg").With("job", jobID)
//
// Module-specific levels override the global level for that module only and
// can be changed at runtime with SetModuleLevel.
//
// When journald is present, logs can be filtered by structured fields:
//
//	journalctl -t abstractgen MODULE=pipeline
package logging
