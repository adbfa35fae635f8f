package sync

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/peopleforrester/claude-dotfiles/internal/paths"
	"github.com/peopleforrester/claude-dotfiles/pkg/fileutil"
)

// chezmoiBackend delegates to the chezmoi dotfile manager. It is first in
// the auto-detection order because an initialized chezmoi setup is the
// strongest signal the user already manages dotfiles this way.
type chezmoiBackend struct {
	runner    Runner
	logger    *slog.Logger
	sourceDir string
}

func newChezmoiBackend(cfg Config) *chezmoiBackend {
	return &chezmoiBackend{
		runner:    cfg.Runner,
		logger:    cfg.Logger,
		sourceDir: filepath.Join(paths.Home(), ".local", "share", "chezmoi"),
	}
}

func (b *chezmoiBackend) Name() string { return "chezmoi" }

// Available requires both the tool and an initialized source directory.
func (b *chezmoiBackend) Available() bool {
	return b.runner.LookPath("chezmoi") && fileutil.IsDir(b.sourceDir)
}

func (b *chezmoiBackend) Remediation() string {
	return "install chezmoi and run 'chezmoi init'"
}

// Push re-captures managed files into the source state, then commits and
// pushes through chezmoi's git passthrough.
func (b *chezmoiBackend) Push() error {
	if err := b.runner.Run("chezmoi", "re-add"); err != nil {
		return errors.Wrap(err, "re-adding managed files")
	}
	if err := b.runner.Run("chezmoi", "git", "--", "add", "-A"); err != nil {
		return errors.Wrap(err, "staging changes")
	}
	msg := "sync " + time.Now().Format("2006-01-02 15:04:05")
	if err := b.runner.Run("chezmoi", "git", "--", "commit", "-m", msg); err != nil {
		// An empty commit fails; that just means nothing changed.
		b.logger.Info("nothing to commit")
		return nil
	}
	if err := b.runner.Run("chezmoi", "git", "--", "push"); err != nil {
		return errors.Wrap(err, "pushing")
	}
	return nil
}

// Pull runs chezmoi update: pull the source repo and apply it.
func (b *chezmoiBackend) Pull() error {
	if err := b.runner.Run("chezmoi", "update"); err != nil {
		return errors.Wrap(err, "updating from source repo")
	}
	return nil
}

// Status reports chezmoi's own diff summary.
func (b *chezmoiBackend) Status() (string, error) {
	out, err := b.runner.Output("chezmoi", "status")
	if err != nil {
		return "", errors.Wrap(err, "querying status")
	}
	if out == "" {
		return "up to date\n", nil
	}
	return out, nil
}
