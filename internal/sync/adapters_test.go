package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cdoterrors "github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/logging"
)

func TestChezmoi_Available(t *testing.T) {
	sourceDir := t.TempDir()

	tests := []struct {
		name      string
		tools     map[string]bool
		sourceDir string
		want      bool
	}{
		{"tool and source present", map[string]bool{"chezmoi": true}, sourceDir, true},
		{"tool missing", map[string]bool{}, sourceDir, false},
		{"source missing", map[string]bool{"chezmoi": true}, filepath.Join(sourceDir, "nope"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &chezmoiBackend{
				runner:    &fakeRunner{tools: tt.tools},
				logger:    logging.ForTest(t),
				sourceDir: tt.sourceDir,
			}
			assert.Equal(t, tt.want, b.Available())
		})
	}
}

func TestChezmoi_PushCommitsAndPushes(t *testing.T) {
	runner := &fakeRunner{tools: map[string]bool{"chezmoi": true}}
	b := &chezmoiBackend{runner: runner, logger: logging.ForTest(t), sourceDir: t.TempDir()}

	require.NoError(t, b.Push())

	assert.True(t, runner.calledWith("chezmoi re-add"))
	assert.True(t, runner.calledWith("chezmoi git -- add -A"))
	assert.True(t, runner.calledWith("chezmoi git -- commit -m"))
	assert.True(t, runner.calledWith("chezmoi git -- push"))
}

func TestChezmoi_PushNothingToCommit(t *testing.T) {
	// A failed commit means an empty diff; push succeeds without pushing.
	runner := &fakeRunner{failOn: "commit"}
	b := &chezmoiBackend{runner: runner, logger: logging.ForTest(t), sourceDir: t.TempDir()}

	require.NoError(t, b.Push())
	assert.False(t, runner.calledWith("chezmoi git -- push"))
}

func TestChezmoi_Pull(t *testing.T) {
	runner := &fakeRunner{}
	b := &chezmoiBackend{runner: runner, logger: logging.ForTest(t), sourceDir: t.TempDir()}

	require.NoError(t, b.Pull())
	assert.True(t, runner.calledWith("chezmoi update"))
}

func TestRsync_Available(t *testing.T) {
	withTool := &fakeRunner{tools: map[string]bool{"rsync": true}}

	b := newRsyncBackend(Config{Remote: "host:~/claude-config", Runner: withTool, Logger: logging.ForTest(t)})
	assert.True(t, b.Available())

	noRemote := newRsyncBackend(Config{Runner: withTool, Logger: logging.ForTest(t)})
	assert.False(t, noRemote.Available(), "remote destination is a required precondition")

	noTool := newRsyncBackend(Config{Remote: "host:x", Runner: &fakeRunner{}, Logger: logging.ForTest(t)})
	assert.False(t, noTool.Available())
}

func TestRsync_PushMirrorsWithExcludes(t *testing.T) {
	runner := &fakeRunner{tools: map[string]bool{"rsync": true}}
	b := newRsyncBackend(Config{
		ConfigRoot: "/home/u/.claude",
		Remote:     "host:~/claude-config",
		Excludes:   []string{"todos", "*.log"},
		Runner:     runner,
		Logger:     logging.ForTest(t),
	})

	require.NoError(t, b.Push())

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Contains(t, call, "--delete")
	assert.Contains(t, call, "--exclude todos")
	assert.Contains(t, call, "--exclude *.log")
	assert.Contains(t, call, "/home/u/.claude/ host:~/claude-config")
	assert.NotContains(t, call, "-n", "push must not be a dry run")
}

func TestRsync_PullReversesDirection(t *testing.T) {
	runner := &fakeRunner{tools: map[string]bool{"rsync": true}}
	b := newRsyncBackend(Config{
		ConfigRoot: "/home/u/.claude",
		Remote:     "host:~/claude-config",
		Runner:     runner,
		Logger:     logging.ForTest(t),
	})

	require.NoError(t, b.Pull())

	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "host:~/claude-config/ /home/u/.claude")
}

func TestRsync_StatusIsDryRun(t *testing.T) {
	runner := &fakeRunner{
		tools:   map[string]bool{"rsync": true},
		outputs: map[string]string{"--itemize-changes": ">f+++++++ settings.json\n"},
	}
	b := newRsyncBackend(Config{
		ConfigRoot: "/home/u/.claude",
		Remote:     "host:~/claude-config",
		Runner:     runner,
		Logger:     logging.ForTest(t),
	})

	out, err := b.Status()
	require.NoError(t, err)
	assert.Contains(t, out, "settings.json")

	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "-n")
}

func TestStow_PushPullRoundTrip(t *testing.T) {
	configRoot := t.TempDir()
	packageDir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(configRoot, "skills", "tdd"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configRoot, "skills", "tdd", "SKILL.md"), []byte("skill"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(configRoot, "settings.json"), []byte("{}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(configRoot, "todos"), 0o755))

	cfg := Config{
		ConfigRoot: configRoot,
		PackageDir: packageDir,
		Logger:     logging.ForTest(t),
		Runner:     &fakeRunner{},
	}
	cfg.fillDefaults()
	b := newStowBackend(cfg)

	require.True(t, b.Available())
	require.NoError(t, b.Push())

	// Staged copy excludes machine-local state.
	assert.FileExists(t, filepath.Join(packageDir, "settings.json"))
	assert.FileExists(t, filepath.Join(packageDir, "skills", "tdd", "SKILL.md"))
	assert.NoDirExists(t, filepath.Join(packageDir, "todos"))

	// Pull onto a fresh machine: live entries become symlinks.
	freshRoot := filepath.Join(t.TempDir(), ".claude")
	b2 := newStowBackend(Config{
		ConfigRoot: freshRoot,
		PackageDir: packageDir,
		Logger:     logging.ForTest(t),
	})
	require.NoError(t, b2.Pull())
	require.NoError(t, b2.Pull(), "restow is idempotent")

	link, err := os.Readlink(filepath.Join(freshRoot, "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(packageDir, "settings.json"), link)

	status, err := b2.Status()
	require.NoError(t, err)
	assert.Contains(t, status, "linked")
}

func TestStow_PullLeavesRealFilesAlone(t *testing.T) {
	configRoot := t.TempDir()
	packageDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(packageDir, "settings.json"), []byte("staged"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(configRoot, "settings.json"), []byte("local edit"), 0o644))

	b := newStowBackend(Config{
		ConfigRoot: configRoot,
		PackageDir: packageDir,
		Logger:     logging.ForTest(t),
	})

	require.NoError(t, b.Pull())

	data, err := os.ReadFile(filepath.Join(configRoot, "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, "local edit", string(data), "a real file is never replaced by a link")

	status, err := b.Status()
	require.NoError(t, err)
	assert.Contains(t, status, "shadowed by local copy")
}

func TestBare_InitOnce(t *testing.T) {
	runner := &fakeRunner{tools: map[string]bool{"git": true}}
	bareDir := filepath.Join(t.TempDir(), "claude-cfg.git")

	b := newBareBackend(Config{
		ConfigRoot: "/home/u/.claude",
		BareDir:    bareDir,
		Runner:     runner,
		Logger:     logging.ForTest(t),
	})

	require.NoError(t, b.Init())
	assert.True(t, runner.calledWith("git init --bare "+bareDir))
	assert.True(t, runner.calledWith("status.showUntrackedFiles no"))

	// Second init against the now-existing directory fails clearly.
	require.NoError(t, os.MkdirAll(bareDir, 0o755))
	err := b.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
}

func TestBare_PushStagesCommitsPushes(t *testing.T) {
	runner := &fakeRunner{tools: map[string]bool{"git": true}}
	bareDir := t.TempDir()

	b := newBareBackend(Config{
		ConfigRoot: "/home/u/.claude",
		BareDir:    bareDir,
		Runner:     runner,
		Logger:     logging.ForTest(t),
	})

	require.NoError(t, b.Push())

	assert.True(t, runner.calledWith("--git-dir="+bareDir))
	assert.True(t, runner.calledWith("add /home/u/.claude"))
	assert.True(t, runner.calledWith("commit -m"))
	assert.True(t, runner.calledWith("push"))
}

func TestBare_PullFetchesAndMerges(t *testing.T) {
	runner := &fakeRunner{tools: map[string]bool{"git": true}}
	b := newBareBackend(Config{
		ConfigRoot: "/home/u/.claude",
		BareDir:    t.TempDir(),
		Runner:     runner,
		Logger:     logging.ForTest(t),
	})

	require.NoError(t, b.Pull())
	assert.True(t, runner.calledWith("fetch"))
	assert.True(t, runner.calledWith("merge --ff-only FETCH_HEAD"))
}

func TestBare_UnavailableWithoutMetadataDir(t *testing.T) {
	runner := &fakeRunner{tools: map[string]bool{"git": true}}
	b := newBareBackend(Config{
		ConfigRoot: "/home/u/.claude",
		BareDir:    filepath.Join(t.TempDir(), "missing"),
		Runner:     runner,
		Logger:     logging.ForTest(t),
	})

	assert.False(t, b.Available())

	err := b.Push()
	require.Error(t, err)
	assert.ErrorIs(t, err, cdoterrors.ErrBackendUnavailable)
}
