package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// OS identifies the host operating system family.
type OS string

// Supported operating systems.
const (
	MacOS   OS = "macos"
	Linux   OS = "linux"
	Windows OS = "windows"
	Unknown OS = "unknown"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrUnsupportedOS indicates the host OS has no known app-data convention.
	ErrUnsupportedOS = errors.New("unsupported operating system")
)

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// ResolveOS detects the host operating system family.
// Anything other than macOS, Linux, or Windows resolves to Unknown.
func ResolveOS() OS {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// EnsureDir creates the directory and any necessary parents.
// If perm is 0, DefaultDirPerm is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or an empty string on error.
// Use ResolveHome when the caller needs to distinguish the failure.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the Claude configuration root: ~/.claude.
// Returns an empty string when the home directory cannot be resolved.
func ConfigHome() string {
	home := Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".claude")
}

// AppDataDir returns the OS-specific application-support directory for an
// application, used for configs that live outside the Claude root (MCP).
//
//   - macOS:   ~/Library/Application Support/<app>
//   - Linux:   $XDG_CONFIG_HOME/<app> (default ~/.config/<app>)
//   - Windows: %APPDATA%\<app>
//
// Returns ErrUnsupportedOS for unknown operating systems; callers degrade
// to a warning and skip the dependent operation.
func AppDataDir(app string) (string, error) {
	return appDataDir(ResolveOS(), app)
}

func appDataDir(hostOS OS, app string) (string, error) {
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}

	switch hostOS {
	case MacOS:
		return filepath.Join(home, "Library", "Application Support", app), nil
	case Linux:
		return filepath.Join(xdg.ConfigHome, app), nil
	case Windows:
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, app), nil
		}
		return filepath.Join(home, "AppData", "Roaming", app), nil
	default:
		return "", errors.Wrapf(ErrUnsupportedOS, "%s", hostOS)
	}
}

// StateHome returns the cdot state directory used for config and backups:
// $XDG_CONFIG_HOME/cdot.
func StateHome() string {
	return filepath.Join(xdg.ConfigHome, "cdot")
}

// DefaultBackupDir returns the default directory for backup archives.
// Returns <StateHome>/backups.
func DefaultBackupDir() string {
	return filepath.Join(StateHome(), "backups")
}

// Component sub-directory names under the configuration root.
const (
	SkillsDirName   = "skills"
	HooksDirName    = "hooks"
	RulesDirName    = "rules"
	AgentsDirName   = "agents"
	CommandsDirName = "commands"
)

// SkillsDir returns <ConfigHome>/skills, or "" when home is unresolvable.
func SkillsDir() string { return configSubdir(SkillsDirName) }

// HooksDir returns <ConfigHome>/hooks, or "" when home is unresolvable.
func HooksDir() string { return configSubdir(HooksDirName) }

// RulesDir returns <ConfigHome>/rules, or "" when home is unresolvable.
func RulesDir() string { return configSubdir(RulesDirName) }

// AgentsDir returns <ConfigHome>/agents, or "" when home is unresolvable.
func AgentsDir() string { return configSubdir(AgentsDirName) }

// CommandsDir returns <ConfigHome>/commands, or "" when home is unresolvable.
func CommandsDir() string { return configSubdir(CommandsDirName) }

func configSubdir(name string) string {
	root := ConfigHome()
	if root == "" {
		return ""
	}
	return filepath.Join(root, name)
}
