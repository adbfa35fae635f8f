package install

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/peopleforrester/claude-dotfiles/internal/paths"
	"github.com/peopleforrester/claude-dotfiles/pkg/fileutil"
)

// Placement records one source-to-destination action. In dry-run mode the
// placer only accumulates these; nothing touches the filesystem.
type Placement struct {
	Source      string
	Destination string
	Mode        string // "copy", "symlink", or "symlink->copy" after a fallback
}

// Placer executes placements according to the intent's link mode.
type Placer struct {
	linkMode LinkMode
	dryRun   bool
	logger   *slog.Logger

	// Actions accumulates every placement, executed or simulated.
	Actions []Placement

	// symlink is swapped by tests to simulate link-permission failures.
	symlink func(oldname, newname string) error
}

// NewPlacer creates a Placer for the given mode.
func NewPlacer(mode LinkMode, dryRun bool, logger *slog.Logger) *Placer {
	return &Placer{
		linkMode: mode,
		dryRun:   dryRun,
		logger:   logger,
		symlink:  os.Symlink,
	}
}

// Place puts source at destination. The destination's parent directory is
// created on demand. In symlink mode a failed link (commonly missing
// privilege) degrades to a copy with a warning instead of aborting.
func (p *Placer) Place(source, destination string) error {
	if _, err := os.Stat(source); err != nil {
		return errors.Wrapf(err, "stat %s", source)
	}

	if p.dryRun {
		p.record(source, destination, p.linkMode.String())
		p.logger.Info("dry-run: would place", "source", source, "destination", destination, "mode", p.linkMode.String())
		return nil
	}

	if err := paths.EnsureDir(filepath.Dir(destination), 0); err != nil {
		return errors.Wrap(err, "creating parent directory")
	}

	if p.linkMode == Symlink {
		err := p.placeSymlink(source, destination)
		if err == nil {
			p.record(source, destination, "symlink")
			return nil
		}
		p.logger.Warn("symlink failed, falling back to copy", "destination", destination, "error", err)
		if err := p.copy(source, destination); err != nil {
			return err
		}
		p.record(source, destination, "symlink->copy")
		return nil
	}

	if err := p.copy(source, destination); err != nil {
		return err
	}
	p.record(source, destination, "copy")
	return nil
}

func (p *Placer) placeSymlink(source, destination string) error {
	abs, err := filepath.Abs(source)
	if err != nil {
		return errors.Wrap(err, "resolving source path")
	}

	// Replace an existing link or file so repeated installs converge.
	if info, err := os.Lstat(destination); err == nil {
		if info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
			if err := os.RemoveAll(destination); err != nil {
				return errors.Wrap(err, "removing existing directory")
			}
		} else if err := os.Remove(destination); err != nil {
			return errors.Wrap(err, "removing existing destination")
		}
	}

	return p.symlink(abs, destination)
}

func (p *Placer) copy(source, destination string) error {
	info, err := os.Stat(source)
	if err != nil {
		return errors.Wrapf(err, "stat %s", source)
	}

	// A previous symlink install leaves a link where the copy goes.
	if existing, err := os.Lstat(destination); err == nil && existing.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(destination); err != nil {
			return errors.Wrap(err, "removing existing symlink")
		}
	}

	if info.IsDir() {
		return fileutil.CopyDir(source, destination)
	}
	return fileutil.CopyFile(source, destination)
}

func (p *Placer) record(source, destination, mode string) {
	p.Actions = append(p.Actions, Placement{
		Source:      source,
		Destination: destination,
		Mode:        mode,
	})
}
