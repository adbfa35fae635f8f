package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/paths"
	"github.com/peopleforrester/claude-dotfiles/internal/sync"
	"github.com/peopleforrester/claude-dotfiles/pkg/fileutil"
)

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration overview",
	Long: `Show an overview of the installed configuration.

Displays which components are present under ~/.claude, the most recent
backup, and which sync backend auto-detection would pick.`,
	Example: `  # Show status
  cdot status

  # JSON output for scripting
  cdot status --json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runStatusWithWriter(cmd.OutOrStdout())
	},
}

// statusOutput is the JSON shape of cdot status.
type statusOutput struct {
	ConfigRoot   string         `json:"config_root"`
	Components   map[string]int `json:"components"`
	LatestBackup string         `json:"latest_backup,omitempty"`
	SyncBackend  string         `json:"sync_backend,omitempty"`
}

func runStatusWithWriter(w io.Writer) error {
	out := statusOutput{
		ConfigRoot: paths.ConfigHome(),
		Components: map[string]int{},
	}

	componentDirs := []struct {
		name string
		dir  string
	}{
		{paths.SkillsDirName, paths.SkillsDir()},
		{paths.HooksDirName, paths.HooksDir()},
		{paths.RulesDirName, paths.RulesDir()},
		{paths.AgentsDirName, paths.AgentsDir()},
		{paths.CommandsDirName, paths.CommandsDir()},
	}
	for _, c := range componentDirs {
		out.Components[c.name] = countEntries(c.dir)
	}
	if fileutil.Exists(filepath.Join(out.ConfigRoot, "settings.json")) {
		out.Components["settings"] = 1
	}

	mgr := newBackupManager()
	if records, err := mgr.List(); err == nil && len(records) > 0 {
		if path, err := mgr.Resolve(""); err == nil {
			out.LatestBackup = filepath.Base(path)
		}
	}

	orch := sync.NewOrchestrator(sync.Config{
		Remote:     cfg.Sync.Remote,
		BareDir:    cfg.Sync.BareDir,
		PackageDir: cfg.Sync.PackageDir,
	})
	if backend, err := orch.Select(cfg.Sync.Method); err == nil {
		out.SyncBackend = backend.Name()
	}

	if statusJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding output")
	}

	fmt.Fprintf(w, "%sConfig root:%s %s\n", colorCyan+colorBold, colorReset, out.ConfigRoot)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range []string{
		"settings",
		paths.SkillsDirName,
		paths.HooksDirName,
		paths.RulesDirName,
		paths.AgentsDirName,
		paths.CommandsDirName,
	} {
		count := out.Components[name]
		if count == 0 {
			fmt.Fprintf(tw, "  %s\t%s(not installed)%s\n", name, colorGray, colorReset)
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s%d%s\n", name, colorGreen, count, colorReset)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "flushing output")
	}

	if out.LatestBackup != "" {
		fmt.Fprintf(w, "%sLatest backup:%s %s\n", colorCyan+colorBold, colorReset, out.LatestBackup)
	} else {
		fmt.Fprintf(w, "%sLatest backup:%s %snone%s\n", colorCyan+colorBold, colorReset, colorGray, colorReset)
	}

	if out.SyncBackend != "" {
		fmt.Fprintf(w, "%sSync backend:%s %s\n", colorCyan+colorBold, colorReset, out.SyncBackend)
	} else {
		fmt.Fprintf(w, "%sSync backend:%s %snone available%s\n", colorCyan+colorBold, colorReset, colorGray, colorReset)
	}

	return nil
}

// countEntries returns the number of directory entries, or zero when the
// directory is absent.
func countEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	return len(entries)
}
