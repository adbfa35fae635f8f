package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/peopleforrester/claude-dotfiles/internal/errors"
)

var backupListJSON bool

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output in JSON format")
	backupCmd.AddCommand(backupListCmd)
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Long: `List backup archives, most recent first.

The archive marked "latest" is the one 'cdot backup restore' uses when
no archive is named.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBackupListWithWriter(cmd.OutOrStdout())
	},
}

// backupInfo represents a single archive in JSON output.
type backupInfo struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
	Latest    bool      `json:"latest"`
}

func runBackupListWithWriter(w io.Writer) error {
	mgr := newBackupManager()

	records, err := mgr.List()
	if err != nil {
		return errors.Wrap(err, "listing backups")
	}

	latest := ""
	if len(records) > 0 {
		if path, err := mgr.Resolve(""); err == nil {
			latest = path
		}
	}

	if backupListJSON {
		out := make([]backupInfo, len(records))
		for i, r := range records {
			out[i] = backupInfo{
				Name:      r.Name,
				CreatedAt: r.CreatedAt,
				SizeBytes: r.SizeBytes,
				Latest:    r.Path == latest,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding output")
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created automatically before cdot modifies the configuration.")
		fmt.Fprintln(w, "You can also create one manually with: cdot backup create")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sNAME%s\t%sCREATED%s\t%sSIZE%s\t\n",
		colorBold, colorReset, colorBold, colorReset, colorBold, colorReset)
	for _, r := range records {
		marker := ""
		if r.Path == latest {
			marker = colorCyan + "latest" + colorReset
		}
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%s\n",
			colorGreen, r.Name, colorReset,
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			humanSize(r.SizeBytes),
			marker)
	}
	return errors.Wrap(tw.Flush(), "flushing output")
}
