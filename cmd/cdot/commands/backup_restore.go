package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/peopleforrester/claude-dotfiles/internal/backup"
	"github.com/peopleforrester/claude-dotfiles/internal/cli/prompt"
	"github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/logging"
	"github.com/peopleforrester/claude-dotfiles/internal/paths"
)

var backupRestoreConfirm bool

func init() {
	backupRestoreCmd.Flags().BoolVar(&backupRestoreConfirm, "confirm", false,
		"proceed without asking")
	backupCmd.AddCommand(backupRestoreCmd)
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [archive]",
	Short: "Restore the configuration from a backup",
	Long: `Replace ~/.claude with the contents of a backup archive.

With no archive argument the latest backup is restored; on a terminal a
fuzzy picker lets you choose one instead. Restoring is destructive, so
it asks first unless --confirm is given, and it snapshots the current
configuration before overwriting it.`,
	Example: `  # Restore the latest backup
  cdot backup restore --confirm

  # Pick an archive interactively
  cdot backup restore

  # Restore a specific archive
  cdot backup restore backup-20260830-120000.tar.gz --confirm`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) == 1 {
			ref = args[0]
		}
		return runBackupRestoreWithWriter(cmd.OutOrStdout(), ref)
	},
}

func runBackupRestoreWithWriter(w io.Writer, ref string) error {
	mgr := newBackupManager()

	if ref == "" && logging.IsTTY(os.Stdin) {
		picked, err := pickArchive(mgr)
		if err != nil {
			return err
		}
		ref = picked
	}

	confirmed := backupRestoreConfirm
	if !confirmed && logging.IsTTY(os.Stdin) {
		target := ref
		if target == "" {
			target = "the latest backup"
		}
		yes, err := prompt.New().Confirm(
			fmt.Sprintf("Replace ~/.claude with %s?", target))
		if err != nil {
			return err
		}
		confirmed = yes
	}

	err := mgr.Restore(ref, paths.ConfigHome(), confirmed)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrConfirmationDeclined):
			fmt.Fprintln(w, "Aborted, no changes made")
			return errors.NewExitError(err, errors.ExitUser)
		case errors.Is(err, errors.ErrBackupNotFound):
			return errors.NewUserError(err,
				"Run 'cdot backup list' to see available archives")
		}
		return errors.Wrap(err, "restoring backup")
	}

	fmt.Fprintf(w, "%s✓ restored ~/.claude%s\n", colorGreen, colorReset)
	return nil
}

// pickArchive runs the fuzzy finder over the available archives.
func pickArchive(mgr *backup.Manager) (string, error) {
	records, err := mgr.List()
	if err != nil {
		return "", errors.Wrap(err, "listing backups")
	}
	if len(records) == 0 {
		return "", errors.NewUserError(errors.ErrBackupNotFound,
			"Create one with 'cdot backup create'")
	}

	idx, err := fuzzyfinder.Find(
		records,
		func(i int) string {
			return fmt.Sprintf("%s (%s)", records[i].Name, humanSize(records[i].SizeBytes))
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			r := records[i]
			return fmt.Sprintf("Name: %s\nCreated: %s\nSize: %s",
				r.Name,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				humanSize(r.SizeBytes),
			)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", errors.NewExitError(errors.ErrConfirmationDeclined, errors.ExitUser)
		}
		return "", errors.Wrap(err, "selecting archive")
	}

	return records[idx].Name, nil
}
