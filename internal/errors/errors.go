package errors

import (
	"errors"
	"fmt"

	cerrors "github.com/cockroachdb/errors"
)

// Exit codes for the cdot CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related outcome: invalid input, an unmet
	// precondition, or a declined confirmation prompt (clean abort).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions,
	// a failed archive or transfer).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrSourceMissing indicates a required source directory is absent.
	ErrSourceMissing = errors.New("source directory not found")

	// ErrOptionalSourceMissing indicates a component's source directory is
	// absent. Callers treat this as a warning and skip the component.
	ErrOptionalSourceMissing = errors.New("component source not found")

	// ErrBackupNotFound indicates no backup archive could be resolved.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrConfirmationDeclined indicates the user declined a destructive
	// prompt. The operation aborts with no changes made.
	ErrConfirmationDeclined = errors.New("confirmation declined")

	// ErrBackendUnavailable indicates a sync backend's preconditions are
	// not met (tool absent, directory missing, config unset).
	ErrBackendUnavailable = errors.New("sync backend unavailable")

	// ErrNoStrategy indicates no sync backend passed auto-detection.
	ErrNoStrategy = errors.New("no sync strategy available")

	// ErrEmptyIntent indicates an install invocation selected nothing.
	ErrEmptyIntent = errors.New("nothing selected to install")
)

// ExitError wraps an error with an exit code and optional suggestion.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Code maps an error to the exit code the process should return.
// A nil error is ExitSuccess; an ExitError reports its own code; a declined
// confirmation is a user-level abort; everything else is a system error.
func Code(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, ErrConfirmationDeclined) {
		return ExitUser
	}
	return ExitSystem
}

// Re-exported helpers so callers can use this package alongside the
// standard library semantics without a second import.

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Newf returns an error with the formatted message.
func Newf(format string, args ...any) error {
	return cerrors.Newf(format, args...)
}

// Wrap annotates err with a message, returning nil when err is nil.
func Wrap(err error, msg string) error {
	return cerrors.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message, returning nil when err
// is nil.
func Wrapf(err error, format string, args ...any) error {
	return cerrors.Wrapf(err, format, args...)
}
