package commands

import (
	"fmt"

	"github.com/peopleforrester/claude-dotfiles/internal/backup"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// newBackupManager builds a backup manager from the loaded configuration.
func newBackupManager() *backup.Manager {
	return backup.NewManager(
		backup.WithDir(cfg.Backup.Dir),
		backup.WithRetention(cfg.Backup.Retain),
	)
}

// humanSize formats a byte count for display.
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
