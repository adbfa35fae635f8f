package sync

import (
	"log/slog"

	"github.com/cockroachdb/errors"
)

// rsyncBackend mirrors the configuration against a remote location with a
// delete-aware transfer. Both directions exclude machine-local state.
type rsyncBackend struct {
	runner     Runner
	logger     *slog.Logger
	configRoot string
	remote     string
	excludes   []string
}

func newRsyncBackend(cfg Config) *rsyncBackend {
	return &rsyncBackend{
		runner:     cfg.Runner,
		logger:     cfg.Logger,
		configRoot: cfg.ConfigRoot,
		remote:     cfg.Remote,
		excludes:   cfg.Excludes,
	}
}

func (b *rsyncBackend) Name() string { return "rsync" }

func (b *rsyncBackend) Available() bool {
	return b.remote != "" && b.runner.LookPath("rsync")
}

func (b *rsyncBackend) Remediation() string {
	return "install rsync and set sync.remote (or CDOT_SYNC_REMOTE) to a destination like host:~/claude-config"
}

// Push mirrors the live configuration to the remote.
func (b *rsyncBackend) Push() error {
	args := b.args(false, b.sourceArg(), b.remote)
	if err := b.runner.Run("rsync", args...); err != nil {
		return errors.Wrap(err, "mirroring to remote")
	}
	return nil
}

// Pull mirrors the remote into the live configuration.
func (b *rsyncBackend) Pull() error {
	args := b.args(false, b.remoteArg(), b.configRoot)
	if err := b.runner.Run("rsync", args...); err != nil {
		return errors.Wrap(err, "mirroring from remote")
	}
	return nil
}

// Status performs a dry-run push and reports the itemized diff without
// applying it.
func (b *rsyncBackend) Status() (string, error) {
	args := b.args(true, b.sourceArg(), b.remote)
	out, err := b.runner.Output("rsync", args...)
	if err != nil {
		return "", errors.Wrap(err, "computing diff")
	}
	if out == "" {
		return "up to date\n", nil
	}
	return out, nil
}

// args builds the rsync argument list. Dry runs add -n and itemization so
// status output is a readable change list.
func (b *rsyncBackend) args(dryRun bool, src, dst string) []string {
	args := []string{"-az", "--delete"}
	if dryRun {
		args = append(args, "-n", "--itemize-changes")
	}
	for _, pat := range b.excludes {
		args = append(args, "--exclude", pat)
	}
	return append(args, src, dst)
}

// sourceArg returns the local side with a trailing slash so rsync mirrors
// directory contents instead of nesting the directory.
func (b *rsyncBackend) sourceArg() string {
	return b.configRoot + "/"
}

func (b *rsyncBackend) remoteArg() string {
	return b.remote + "/"
}
