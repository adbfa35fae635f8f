package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/peopleforrester/claude-dotfiles/internal/backup"
	"github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/paths"
)

func init() {
	backupCmd.AddCommand(backupCreateCmd)
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a backup of the live configuration",
	Long: `Archive ~/.claude into a timestamped tar.gz file.

Session state, logs, and temp files are excluded. After the archive is
written, archives beyond the retention limit are rotated out, oldest
first.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBackupCreateWithWriter(cmd.OutOrStdout())
	},
}

func runBackupCreateWithWriter(w io.Writer) error {
	mgr := newBackupManager()

	record, err := mgr.Create(paths.ConfigHome(), backup.DefaultExcludes)
	if err != nil {
		if errors.Is(err, errors.ErrSourceMissing) {
			return errors.NewUserError(err,
				"Nothing to back up; run 'cdot install' first")
		}
		return errors.Wrap(err, "creating backup")
	}

	rotated, err := mgr.Rotate(mgr.Retention())
	if err != nil {
		return errors.Wrap(err, "rotating backups")
	}

	fmt.Fprintf(w, "%s✓ created %s (%s)%s\n",
		colorGreen, record.Name, humanSize(record.SizeBytes), colorReset)
	for _, r := range rotated {
		fmt.Fprintf(w, "%s  rotated out %s%s\n", colorGray, r.Name, colorReset)
	}
	return nil
}
