package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage configuration backups",
	Long: `Manage timestamped backups of the live ~/.claude configuration.

Before cdot modifies or restores the configuration it creates an archive
automatically. This command group lets you create, list, restore, and
clean those archives manually.

Archives are tar.gz files named backup-YYYYMMDD-HHMMSS.tar.gz stored in
~/.config/cdot/backups/ by default; a "latest" pointer file tracks the
most recent one.`,
	Example: `  # Create a backup now
  cdot backup create

  # List archives, newest first
  cdot backup list

  # Restore the most recent archive
  cdot backup restore --confirm

  # Restore a specific archive
  cdot backup restore backup-20260830-120000.tar.gz --confirm

  # Delete all archives
  cdot backup clean --confirm`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}
