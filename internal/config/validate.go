package config

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/peopleforrester/claude-dotfiles/internal/paths"
)

// Validation errors for configuration fields.
var (
	// ErrRetainNegative indicates backup.retain is below zero.
	ErrRetainNegative = errors.New("backup.retain must be >= 0")

	// ErrInvalidMethod indicates an unrecognized sync method name.
	ErrInvalidMethod = errors.New("invalid sync method")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// validMethods are the sync method names Select accepts, plus empty
// for auto-detection.
var validMethods = map[string]bool{
	"":        true,
	"chezmoi": true,
	"stow":    true,
	"rsync":   true,
	"bare":    true,
}

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Backup.Retain < 0 {
		errs = append(errs, ErrRetainNegative)
	}

	method := strings.ToLower(strings.TrimSpace(cfg.Sync.Method))
	if !validMethods[method] {
		errs = append(errs, errors.Wrapf(ErrInvalidMethod, "%q (valid: chezmoi, stow, rsync, bare)", cfg.Sync.Method))
	}

	for field, path := range map[string]string{
		"backup.dir":       cfg.Backup.Dir,
		"sync.bare_dir":    cfg.Sync.BareDir,
		"sync.package_dir": cfg.Sync.PackageDir,
	} {
		if err := validatePath(path); err != nil {
			errs = append(errs, errors.Wrapf(err, "%s: %q", field, path))
		}
	}

	return errs
}

// validatePath checks that a path string is well-formed. It does not
// check existence.
func validatePath(path string) error {
	// Empty paths are valid and mean "use default".
	if path == "" {
		return nil
	}

	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

func defaultBareDir() string {
	return filepath.Join(paths.Home(), ".cfg")
}

func defaultPackageDir() string {
	return filepath.Join(paths.StateHome(), "stow")
}
