package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/peopleforrester/claude-dotfiles/internal/cli/prompt"
	"github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/logging"
)

var backupCleanConfirm bool

func init() {
	backupCleanCmd.Flags().BoolVar(&backupCleanConfirm, "confirm", false,
		"proceed without asking")
	backupCmd.AddCommand(backupCleanCmd)
}

var backupCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete all backup archives",
	Long: `Delete every backup archive and the latest pointer.

This is destructive and cannot be undone, so it asks first unless
--confirm is given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBackupCleanWithWriter(cmd.OutOrStdout())
	},
}

func runBackupCleanWithWriter(w io.Writer) error {
	mgr := newBackupManager()

	confirmed := backupCleanConfirm
	if !confirmed && logging.IsTTY(os.Stdin) {
		yes, err := prompt.New().Confirm("Delete ALL backup archives?")
		if err != nil {
			return err
		}
		confirmed = yes
	}

	removed, err := mgr.Clean(confirmed)
	if err != nil {
		if errors.Is(err, errors.ErrConfirmationDeclined) {
			fmt.Fprintln(w, "Aborted, no changes made")
			return errors.NewExitError(err, errors.ExitUser)
		}
		return errors.Wrap(err, "cleaning backups")
	}

	fmt.Fprintf(w, "%s✓ removed %d archive(s)%s\n", colorGreen, removed, colorReset)
	return nil
}
