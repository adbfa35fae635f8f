package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/peopleforrester/claude-dotfiles/internal/backup"
	"github.com/peopleforrester/claude-dotfiles/internal/cli/prompt"
	"github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/install"
	"github.com/peopleforrester/claude-dotfiles/internal/logging"
	"github.com/peopleforrester/claude-dotfiles/internal/paths"
)

var installOpts struct {
	all        bool
	minimal    bool
	components []string
	profile    string
	symlink    bool
	noBackup   bool
	dryRun     bool
	template   string
}

func init() {
	f := installCmd.Flags()
	f.BoolVar(&installOpts.all, "all", false, "install every component")
	f.BoolVar(&installOpts.minimal, "minimal", false, "install settings and rules only")
	f.StringSliceVarP(&installOpts.components, "component", "c", nil,
		"component(s) to install: settings, skills, hooks, rules, agents, commands, mcp")
	f.StringVarP(&installOpts.profile, "profile", "p", "",
		"permission profile: conservative, balanced, autonomous")
	f.BoolVarP(&installOpts.symlink, "symlink", "s", false,
		"symlink files instead of copying (falls back to copy on failure)")
	f.BoolVar(&installOpts.noBackup, "no-backup", false,
		"skip the automatic pre-install backup")
	f.BoolVarP(&installOpts.dryRun, "dry-run", "n", false,
		"show what would be done without doing it")
	f.StringVarP(&installOpts.template, "template", "t", "",
		"install a project template into the current directory instead")
	installCmd.MarkFlagsMutuallyExclusive("all", "minimal", "component")

	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install [bundle-dir]",
	Short: "Install a configuration bundle into ~/.claude",
	Long: `Install components from a configuration bundle into ~/.claude.

The bundle directory defaults to the current directory. Select components
with --all, --minimal, or repeated --component flags; with no selection
flags on a terminal, an interactive prompt asks instead.

Unless --no-backup or --dry-run is given, the live configuration is
backed up before anything is written.`,
	Example: `  # Install everything with the balanced profile
  cdot install --all

  # Settings and rules only, most restrictive permissions
  cdot install --minimal --profile conservative

  # Symlink skills and hooks from a bundle checkout
  cdot install ~/src/claude-bundle -c skills -c hooks --symlink

  # Copy the go project template into the current directory
  cdot install --template go`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	bundleDir := "."
	if len(args) == 1 {
		bundleDir = args[0]
	}
	return runInstallWithWriter(cmd.Context(), cmd.OutOrStdout(), bundleDir)
}

func runInstallWithWriter(ctx context.Context, w io.Writer, bundleDir string) error {
	opts := install.IntentOptions{
		All:        installOpts.all,
		Minimal:    installOpts.minimal,
		Components: installOpts.components,
		Profile:    installOpts.profile,
		Symlink:    installOpts.symlink,
		DryRun:     installOpts.dryRun,
		SkipBackup: installOpts.noBackup,
		Template:   installOpts.template,
	}

	// No selection on a terminal means ask.
	if !opts.All && !opts.Minimal && len(opts.Components) == 0 && opts.Template == "" &&
		logging.IsTTY(os.Stdin) {
		answers, err := prompt.New().AskIntent()
		if err != nil {
			return err
		}
		answers.DryRun = opts.DryRun
		answers.SkipBackup = opts.SkipBackup
		opts = answers
	}

	intent, err := install.NewIntent(opts)
	if err != nil {
		if errors.Is(err, errors.ErrEmptyIntent) {
			return errors.NewUserError(err,
				"Select components with --all, --minimal, or --component")
		}
		return errors.NewUserError(err, "Run 'cdot install --help' for valid values")
	}

	installer := install.NewInstaller(bundleDir,
		install.WithInstallLogger(logging.FromContext(ctx)))

	if intent.Template != "" {
		workDir, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "resolving working directory")
		}
		if err := installer.InstallTemplate(intent.Template, workDir, prompt.New()); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s✓ installed template %q%s\n", colorGreen, intent.Template, colorReset)
		return nil
	}

	if !intent.SkipBackup && !intent.DryRun {
		if record, err := preInstallBackup(); err != nil {
			return errors.NewSystemError(err,
				"Use --no-backup to install without a pre-install backup")
		} else if record != nil {
			fmt.Fprintf(w, "Backed up ~/.claude to %s\n", record.Name)
		}
	}

	report, err := installer.Run(intent)
	if err != nil {
		return err
	}

	printReport(w, intent, report)

	if !report.Succeeded() {
		return errors.NewSystemError(errors.New("settings install failed"),
			"Inspect the errors above and re-run; the pre-install backup is intact")
	}
	return nil
}

// preInstallBackup archives the live configuration. A missing config root
// is a fresh install, not an error.
func preInstallBackup() (*backup.Record, error) {
	mgr := newBackupManager()
	record, err := mgr.Create(paths.ConfigHome(), backup.DefaultExcludes)
	if errors.Is(err, errors.ErrSourceMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := mgr.Rotate(mgr.Retention()); err != nil {
		return record, err
	}
	return record, nil
}

func printReport(w io.Writer, intent *install.Intent, report *install.Report) {
	if intent.DryRun {
		fmt.Fprintf(w, "%sDry run: no files were changed%s\n", colorYellow, colorReset)
		for _, a := range report.Actions {
			fmt.Fprintf(w, "  would %s %s -> %s\n", a.Mode, a.Source, a.Destination)
		}
		return
	}

	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(w, "%s✗ %s: %v%s\n", colorYellow, res.Kind, res.Err, colorReset)
		case res.Skipped:
			fmt.Fprintf(w, "%s- %s: not in bundle, skipped%s\n", colorGray, res.Kind, colorReset)
		default:
			fmt.Fprintf(w, "%s✓ %s: %d placed%s\n", colorGreen, res.Kind, res.Placed, colorReset)
		}
	}
	fmt.Fprintf(w, "\n%d items placed (%s mode, %s profile)\n",
		report.Placed(), intent.LinkMode, intent.Profile)
}
