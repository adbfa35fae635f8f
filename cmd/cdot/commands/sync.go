package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/sync"
)

// syncMethod holds the value of the --method flag, overriding sync.method
// from the config file.
var syncMethod string

func init() {
	syncCmd.PersistentFlags().StringVarP(&syncMethod, "method", "m", "",
		"sync backend: chezmoi, stow, rsync, bare (default: auto-detect)")

	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncInitCmd)
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the configuration across machines",
	Long: `Sync ~/.claude through whichever backend is on hand.

Backends in auto-detection order:

  chezmoi  managed dotfiles repository (chezmoi on PATH, source dir exists)
  stow     symlink-farm package directory
  rsync    mirror to a remote (requires sync.remote / CDOT_SYNC_REMOTE)
  bare     bare git repository with $HOME as the work tree

Pick one explicitly with --method or the sync.method config key. An
explicitly requested backend that is not available is an error.`,
	Example: `  # Push with whatever backend is detected
  cdot sync push

  # Pull using rsync explicitly
  cdot sync pull --method rsync

  # See what would change
  cdot sync status

  # Bootstrap the bare repository backend
  cdot sync init --method bare`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// selectBackend builds the orchestrator from config and resolves the
// backend for this invocation.
func selectBackend() (sync.Backend, error) {
	orch := sync.NewOrchestrator(sync.Config{
		Remote:     cfg.Sync.Remote,
		BareDir:    cfg.Sync.BareDir,
		PackageDir: cfg.Sync.PackageDir,
	})

	method := syncMethod
	if method == "" {
		method = cfg.Sync.Method
	}

	backend, err := orch.Select(method)
	if err != nil {
		if errors.Is(err, errors.ErrNoStrategy) || errors.Is(err, errors.ErrBackendUnavailable) {
			return nil, errors.NewUserError(err, "")
		}
		return nil, err
	}
	return backend, nil
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push local configuration outward",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSyncPushWithWriter(cmd.OutOrStdout())
	},
}

func runSyncPushWithWriter(w io.Writer) error {
	backend, err := selectBackend()
	if err != nil {
		return err
	}
	if err := backend.Push(); err != nil {
		return errors.Wrapf(err, "pushing via %s", backend.Name())
	}
	fmt.Fprintf(w, "%s✓ pushed via %s%s\n", colorGreen, backend.Name(), colorReset)
	return nil
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull remote configuration into ~/.claude",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSyncPullWithWriter(cmd.OutOrStdout())
	},
}

func runSyncPullWithWriter(w io.Writer) error {
	backend, err := selectBackend()
	if err != nil {
		return err
	}
	if err := backend.Pull(); err != nil {
		return errors.Wrapf(err, "pulling via %s", backend.Name())
	}
	fmt.Fprintf(w, "%s✓ pulled via %s%s\n", colorGreen, backend.Name(), colorReset)
	return nil
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending sync differences",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSyncStatusWithWriter(cmd.OutOrStdout())
	},
}

func runSyncStatusWithWriter(w io.Writer) error {
	backend, err := selectBackend()
	if err != nil {
		return err
	}
	out, err := backend.Status()
	if err != nil {
		return errors.Wrapf(err, "status via %s", backend.Name())
	}
	fmt.Fprintf(w, "%sbackend: %s%s\n", colorCyan, backend.Name(), colorReset)
	fmt.Fprint(w, out)
	return nil
}

var syncInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap a sync backend",
	Long: `Run a backend's one-time setup step.

Currently only the bare repository backend has one: it creates the bare
git metadata directory and configures it to hide untracked files. Running
it twice is an error.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSyncInitWithWriter(cmd.OutOrStdout())
	},
}

func runSyncInitWithWriter(w io.Writer) error {
	orch := sync.NewOrchestrator(sync.Config{
		Remote:     cfg.Sync.Remote,
		BareDir:    cfg.Sync.BareDir,
		PackageDir: cfg.Sync.PackageDir,
	})

	method := syncMethod
	if method == "" {
		method = cfg.Sync.Method
	}
	if method == "" {
		return errors.NewUserError(errors.New("init requires an explicit backend"),
			"Pass --method, e.g. 'cdot sync init --method bare'")
	}

	// Init must not require Available(): for the bare backend the
	// metadata directory only exists after init succeeds.
	var backend sync.Backend
	for _, b := range orch.Backends() {
		if b.Name() == method {
			backend = b
			break
		}
	}
	if backend == nil {
		return errors.NewUserError(errors.Newf("unknown sync method %q", method),
			"Valid methods: chezmoi, stow, rsync, bare")
	}

	initializer, ok := backend.(sync.Initializer)
	if !ok {
		return errors.NewUserError(
			errors.Newf("backend %s has no init step", backend.Name()), "")
	}
	if err := initializer.Init(); err != nil {
		return errors.Wrapf(err, "initializing %s", backend.Name())
	}

	fmt.Fprintf(w, "%s✓ initialized %s backend%s\n", colorGreen, backend.Name(), colorReset)
	return nil
}
