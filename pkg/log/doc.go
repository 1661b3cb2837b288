// Package log provides a structured trace of DNS-SD bridge activity.
//
// This package defines the Logger interface and the Event type capturing one
// discovery operation or result delivery. It is separate from operational
// logging (slog) - the trace is a complete machine-readable record of what
// crossed the bridge, for debugging and analysis.
//
// # Basic Usage
//
// Applications configure tracing by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Trace = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Trace, _ = log.NewFileLogger("/var/log/dnssd/bridge.dlog")
//
//	// Both: use MultiLogger
//	cfg.Trace = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Direction
//
// DirectionOut marks a call crossing into the discovery backend (browse,
// stop, resolve, publish, remove); DirectionIn marks a result delivered back
// by the backend (browse batch, resolve completion).
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys; Reader
// replays them with optional filtering.
package log
