// Package logging configures structured logging for cdot using log/slog.
// It provides a TTY-optimized text handler with color support, a JSON
// handler for machine consumption, a multi-handler for tee output to a
// log file, and helpers for verbosity mapping and test loggers.
package logging
