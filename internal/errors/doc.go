// Package errors provides error types and exit codes shared across the
// cdot CLI. It defines the sentinel errors of the install, backup, and
// sync engines plus an ExitError type that carries an exit code and an
// actionable suggestion for the user.
package errors
