package sync

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/peopleforrester/claude-dotfiles/internal/backup"
	"github.com/peopleforrester/claude-dotfiles/internal/paths"
	"github.com/peopleforrester/claude-dotfiles/pkg/fileutil"
)

// stowBackend keeps a stow-style package directory: push stages a copy of
// the live configuration there, pull re-establishes symlinks from the
// package into the live location. Versioning of the package directory is
// the user's business; this backend never commits anything.
type stowBackend struct {
	configRoot string
	packageDir string
	excludes   []string
	logger     *slog.Logger
}

func newStowBackend(cfg Config) *stowBackend {
	return &stowBackend{
		configRoot: cfg.ConfigRoot,
		packageDir: cfg.PackageDir,
		excludes:   cfg.Excludes,
		logger:     cfg.Logger,
	}
}

func (b *stowBackend) Name() string { return "stow" }

func (b *stowBackend) Available() bool {
	return b.packageDir != "" && fileutil.IsDir(b.packageDir)
}

func (b *stowBackend) Remediation() string {
	return "create a package directory and set sync.package_dir (or CDOT_PACKAGE_DIR)"
}

// Push copies the live configuration into the package staging directory,
// skipping machine-local state.
func (b *stowBackend) Push() error {
	entries, err := os.ReadDir(b.configRoot)
	if err != nil {
		return errors.Wrap(err, "reading configuration root")
	}

	for _, entry := range entries {
		if backup.MatchesExclude(entry.Name(), b.excludes) {
			continue
		}
		src := filepath.Join(b.configRoot, entry.Name())
		dst := filepath.Join(b.packageDir, entry.Name())

		// Replace the staged copy wholesale so deletions propagate.
		if err := os.RemoveAll(dst); err != nil {
			return errors.Wrapf(err, "clearing staged %s", entry.Name())
		}
		if entry.IsDir() {
			err = fileutil.CopyDir(src, dst)
		} else {
			err = fileutil.CopyFile(src, dst)
		}
		if err != nil {
			return errors.Wrapf(err, "staging %s", entry.Name())
		}
		b.logger.Debug("staged entry", "entry", entry.Name())
	}

	return nil
}

// Pull restows: every package entry gets a symlink in the live location,
// replacing any existing link for the same entry. Running it twice
// converges to the same state.
func (b *stowBackend) Pull() error {
	entries, err := os.ReadDir(b.packageDir)
	if err != nil {
		return errors.Wrap(err, "reading package directory")
	}

	if err := paths.EnsureDir(b.configRoot, 0); err != nil {
		return errors.Wrap(err, "creating configuration root")
	}

	for _, entry := range entries {
		target := filepath.Join(b.packageDir, entry.Name())
		link := filepath.Join(b.configRoot, entry.Name())

		if info, err := os.Lstat(link); err == nil {
			if info.Mode()&os.ModeSymlink == 0 {
				b.logger.Warn("live entry is not a symlink, leaving it alone", "entry", entry.Name())
				continue
			}
			if err := os.Remove(link); err != nil {
				return errors.Wrapf(err, "removing stale link %s", entry.Name())
			}
		}

		if err := os.Symlink(target, link); err != nil {
			return errors.Wrapf(err, "linking %s", entry.Name())
		}
		b.logger.Debug("restowed entry", "entry", entry.Name())
	}

	return nil
}

// Status reports, per package entry, whether the live side links to it.
func (b *stowBackend) Status() (string, error) {
	entries, err := os.ReadDir(b.packageDir)
	if err != nil {
		return "", errors.Wrap(err, "reading package directory")
	}

	var sb strings.Builder
	for _, entry := range entries {
		link := filepath.Join(b.configRoot, entry.Name())
		state := "missing"

		if info, err := os.Lstat(link); err == nil {
			switch {
			case info.Mode()&os.ModeSymlink != 0:
				if dest, err := os.Readlink(link); err == nil && dest == filepath.Join(b.packageDir, entry.Name()) {
					state = "linked"
				} else {
					state = "linked elsewhere"
				}
			default:
				state = "shadowed by local copy"
			}
		}

		fmt.Fprintf(&sb, "%-10s %s\n", state, entry.Name())
	}

	if sb.Len() == 0 {
		return "package directory is empty\n", nil
	}
	return sb.String(), nil
}
