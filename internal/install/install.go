package install

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	cdoterrors "github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/logging"
	"github.com/peopleforrester/claude-dotfiles/internal/paths"
	"github.com/peopleforrester/claude-dotfiles/pkg/fileutil"
	"github.com/peopleforrester/claude-dotfiles/pkg/frontmatter"
)

// Bundle layout: sub-directory of the source bundle per component kind.
const (
	settingsBundleDir  = "settings"
	templatesBundleDir = "templates"
	mcpBundleDir       = "mcp"

	// skillManifest is the manifest file every skill directory must carry.
	skillManifest = "SKILL.md"

	// mcpConfigFile is the MCP config filename inside the bundle and at
	// the destination.
	mcpConfigFile = "claude_desktop_config.json"

	// mcpAppName is the application directory name under the OS-specific
	// app-data location.
	mcpAppName = "Claude"
)

// skillMatter is the frontmatter every SKILL.md manifest carries.
type skillMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ComponentResult reports the outcome for one component kind.
type ComponentResult struct {
	Kind    ComponentKind
	Placed  int
	Skipped bool // optional source missing
	Err     error
}

// Report summarizes an install run.
type Report struct {
	Results []ComponentResult
	Actions []Placement
}

// Placed returns the total number of items placed across components.
func (r *Report) Placed() int {
	total := 0
	for _, res := range r.Results {
		total += res.Placed
	}
	return total
}

// Succeeded reports whether the run as a whole succeeded: the settings
// core must not have failed, and skipped optional components don't count
// against it.
func (r *Report) Succeeded() bool {
	for _, res := range r.Results {
		if res.Kind == Settings && res.Err != nil {
			return false
		}
	}
	return true
}

// Installer applies an Intent against a source bundle.
type Installer struct {
	bundleDir  string
	configRoot string
	logger     *slog.Logger

	// appDataDir resolves the OS-specific app-data directory; swapped by
	// tests and degraded to a warning on unknown platforms.
	appDataDir func(app string) (string, error)
}

// InstallerOption configures an Installer.
type InstallerOption func(*Installer)

// WithConfigRoot overrides the destination configuration root.
func WithConfigRoot(dir string) InstallerOption {
	return func(i *Installer) {
		if dir != "" {
			i.configRoot = dir
		}
	}
}

// WithInstallLogger sets the logger.
func WithInstallLogger(logger *slog.Logger) InstallerOption {
	return func(i *Installer) {
		i.logger = logger
	}
}

// WithAppDataDir overrides OS app-data resolution; used by tests.
func WithAppDataDir(fn func(app string) (string, error)) InstallerOption {
	return func(i *Installer) {
		i.appDataDir = fn
	}
}

// NewInstaller creates an Installer reading from the given source bundle.
func NewInstaller(bundleDir string, opts ...InstallerOption) *Installer {
	i := &Installer{
		bundleDir:  bundleDir,
		configRoot: paths.ConfigHome(),
		logger:     logging.Default(),
		appDataDir: paths.AppDataDir,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run applies the intent. The bundle root must exist (fatal otherwise);
// individual components with missing sources are skipped with a warning.
func (i *Installer) Run(intent *Intent) (*Report, error) {
	if !fileutil.IsDir(i.bundleDir) {
		return nil, errors.Wrapf(cdoterrors.ErrSourceMissing, "bundle root %s", i.bundleDir)
	}

	placer := NewPlacer(intent.LinkMode, intent.DryRun, i.logger)
	report := &Report{}

	for _, kind := range intent.Components {
		count, err := i.installComponent(kind, intent, placer)
		result := ComponentResult{Kind: kind, Placed: count}

		switch {
		case errors.Is(err, cdoterrors.ErrOptionalSourceMissing):
			result.Skipped = true
			i.logger.Warn("component source missing, skipping", "component", kind)
		case err != nil:
			result.Err = err
			i.logger.Error("component install failed", "component", kind, "error", err)
		default:
			i.logger.Info("component installed", "component", kind, "placed", count)
		}

		report.Results = append(report.Results, result)
	}

	report.Actions = placer.Actions
	return report, nil
}

// installComponent dispatches one component kind and returns the number of
// items placed.
func (i *Installer) installComponent(kind ComponentKind, intent *Intent, placer *Placer) (int, error) {
	switch kind {
	case Settings:
		return i.installSettings(intent, placer)
	case Skills:
		return i.installSkills(placer)
	case Agents:
		return i.installMarkdownUnits(paths.AgentsDirName, placer)
	case Commands:
		return i.installMarkdownUnits(paths.CommandsDirName, placer)
	case Hooks:
		return i.installTree(paths.HooksDirName, placer)
	case Rules:
		return i.installTree(paths.RulesDirName, placer)
	case McpConfig:
		return i.installMcpConfig(placer)
	default:
		return 0, errors.Newf("unknown component kind %q", kind)
	}
}

// installSettings resolves the selected profile to a settings file and
// places it as settings.json under the configuration root. A missing
// profile file falls back to the default profile with a warning.
func (i *Installer) installSettings(intent *Intent, placer *Placer) (int, error) {
	dir := filepath.Join(i.bundleDir, settingsBundleDir)
	if !fileutil.IsDir(dir) {
		return 0, cdoterrors.ErrOptionalSourceMissing
	}

	source := filepath.Join(dir, profileFileName(intent.Profile))
	if !fileutil.Exists(source) {
		fallback := filepath.Join(dir, profileFileName(DefaultProfile))
		if !fileutil.Exists(fallback) {
			return 0, errors.Newf("no settings file for profile %q and no default", intent.Profile)
		}
		i.logger.Warn("profile settings missing, using default",
			"profile", intent.Profile, "default", DefaultProfile)
		source = fallback
	}

	dest := filepath.Join(i.configRoot, "settings.json")
	if err := placer.Place(source, dest); err != nil {
		return 0, err
	}
	return 1, nil
}

// installSkills enumerates skill directories in the bundle. A skill is a
// directory carrying a SKILL.md manifest with a name; directories without
// a parseable manifest are skipped with a warning. Each skill is placed
// independently so one bad skill doesn't sink the rest.
func (i *Installer) installSkills(placer *Placer) (int, error) {
	dir := filepath.Join(i.bundleDir, paths.SkillsDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, cdoterrors.ErrOptionalSourceMissing
		}
		return 0, errors.Wrap(err, "reading skills directory")
	}

	placed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		source := filepath.Join(dir, entry.Name())
		var matter skillMatter
		if _, err := frontmatter.ParseFile(filepath.Join(source, skillManifest), &matter); err != nil || matter.Name == "" {
			i.logger.Warn("skipping skill without valid manifest", "skill", entry.Name())
			continue
		}

		dest := filepath.Join(i.configRoot, paths.SkillsDirName, entry.Name())
		if err := placer.Place(source, dest); err != nil {
			return placed, errors.Wrapf(err, "placing skill %s", entry.Name())
		}
		i.logger.Debug("placed skill", "name", matter.Name)
		placed++
	}

	return placed, nil
}

// installMarkdownUnits enumerates .md units (agents, commands) and places
// each independently under the matching directory of the config root.
func (i *Installer) installMarkdownUnits(subdir string, placer *Placer) (int, error) {
	dir := filepath.Join(i.bundleDir, subdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, cdoterrors.ErrOptionalSourceMissing
		}
		return 0, errors.Wrapf(err, "reading %s directory", subdir)
	}

	placed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		source := filepath.Join(dir, entry.Name())
		dest := filepath.Join(i.configRoot, subdir, entry.Name())
		if err := placer.Place(source, dest); err != nil {
			return placed, errors.Wrapf(err, "placing %s", entry.Name())
		}
		placed++
	}

	return placed, nil
}

// installTree places a whole component directory (hooks, rules) as one unit.
func (i *Installer) installTree(subdir string, placer *Placer) (int, error) {
	source := filepath.Join(i.bundleDir, subdir)
	if !fileutil.IsDir(source) {
		return 0, cdoterrors.ErrOptionalSourceMissing
	}

	dest := filepath.Join(i.configRoot, subdir)
	if err := placer.Place(source, dest); err != nil {
		return 0, err
	}
	return 1, nil
}

// installMcpConfig places the MCP config into the OS-specific app-data
// directory rather than the configuration root. An unresolvable app-data
// location (unknown OS) degrades to a warning and a no-op.
func (i *Installer) installMcpConfig(placer *Placer) (int, error) {
	source := filepath.Join(i.bundleDir, mcpBundleDir, mcpConfigFile)
	if !fileutil.Exists(source) {
		return 0, cdoterrors.ErrOptionalSourceMissing
	}

	appDir, err := i.appDataDir(mcpAppName)
	if err != nil {
		i.logger.Warn("cannot resolve app-data directory, skipping MCP config", "error", err)
		return 0, nil
	}

	dest := filepath.Join(appDir, mcpConfigFile)
	if err := placer.Place(source, dest); err != nil {
		return 0, err
	}
	return 1, nil
}

func profileFileName(p Profile) string {
	return fmt.Sprintf("settings-%s.json", p)
}
