package sync

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	cdoterrors "github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/paths"
	"github.com/peopleforrester/claude-dotfiles/pkg/fileutil"
)

// bareBackend treats the home directory as a work tree against a bare
// repository stored in a separate metadata directory, the classic
// "dotfiles bare repo" arrangement.
type bareBackend struct {
	runner     Runner
	logger     *slog.Logger
	configRoot string
	bareDir    string
	workTree   string
}

func newBareBackend(cfg Config) *bareBackend {
	return &bareBackend{
		runner:     cfg.Runner,
		logger:     cfg.Logger,
		configRoot: cfg.ConfigRoot,
		bareDir:    cfg.BareDir,
		workTree:   paths.Home(),
	}
}

func (b *bareBackend) Name() string { return "bare" }

func (b *bareBackend) Available() bool {
	return b.bareDir != "" && fileutil.IsDir(b.bareDir) && b.runner.LookPath("git")
}

func (b *bareBackend) Remediation() string {
	return "run 'cdot sync init --method bare' after setting sync.bare_dir (or CDOT_BARE_DIR)"
}

// git runs a git command against the bare metadata directory with the
// home directory as the work tree.
func (b *bareBackend) git(args ...string) error {
	full := append([]string{"--git-dir=" + b.bareDir, "--work-tree=" + b.workTree}, args...)
	return b.runner.Run("git", full...)
}

func (b *bareBackend) gitOutput(args ...string) (string, error) {
	full := append([]string{"--git-dir=" + b.bareDir, "--work-tree=" + b.workTree}, args...)
	return b.runner.Output("git", full...)
}

// Init bootstraps the bare metadata directory exactly once. An already
// initialized location is a clear error, not a silent re-init.
func (b *bareBackend) Init() error {
	if b.bareDir == "" {
		return errors.New("no bare repository directory configured; set sync.bare_dir or CDOT_BARE_DIR")
	}
	if fileutil.Exists(b.bareDir) {
		return errors.Newf("bare repository already initialized at %s", b.bareDir)
	}

	if err := b.runner.Run("git", "init", "--bare", b.bareDir); err != nil {
		return errors.Wrap(err, "initializing bare repository")
	}
	// Keep `status` quiet about the rest of the home directory.
	if err := b.git("config", "status.showUntrackedFiles", "no"); err != nil {
		return errors.Wrap(err, "configuring repository")
	}

	b.logger.Info("initialized bare repository", "dir", b.bareDir)
	return nil
}

// Push stages the configuration tree, commits, and pushes.
func (b *bareBackend) Push() error {
	if !b.Available() {
		return errors.Wrapf(cdoterrors.ErrBackendUnavailable, "bare: %s", b.Remediation())
	}

	if err := b.git("add", b.configRoot); err != nil {
		return errors.Wrap(err, "staging configuration")
	}
	msg := "sync " + time.Now().Format("2006-01-02 15:04:05")
	if err := b.git("commit", "-m", msg); err != nil {
		// Nothing staged means nothing changed.
		b.logger.Info("nothing to commit")
		return nil
	}
	if err := b.git("push"); err != nil {
		return errors.Wrap(err, "pushing")
	}
	return nil
}

// Pull fetches and merges; the backend surfaces whatever conflict
// resolution git reports rather than attempting its own.
func (b *bareBackend) Pull() error {
	if !b.Available() {
		return errors.Wrapf(cdoterrors.ErrBackendUnavailable, "bare: %s", b.Remediation())
	}

	if err := b.git("fetch"); err != nil {
		return errors.Wrap(err, "fetching")
	}
	if err := b.git("merge", "--ff-only", "FETCH_HEAD"); err != nil {
		return errors.Wrap(err, "merging")
	}
	return nil
}

// Status reports the short git status of the configuration tree.
func (b *bareBackend) Status() (string, error) {
	out, err := b.gitOutput("status", "--short", "--", b.configRoot)
	if err != nil {
		return "", errors.Wrap(err, "querying status")
	}
	if out == "" {
		return "up to date\n", nil
	}
	return out, nil
}
