package install

import (
	"strings"

	"github.com/cockroachdb/errors"

	cdoterrors "github.com/peopleforrester/claude-dotfiles/internal/errors"
)

// ComponentKind identifies one installable unit of configuration.
type ComponentKind string

// Installable component kinds.
const (
	Settings  ComponentKind = "settings"
	Skills    ComponentKind = "skills"
	Hooks     ComponentKind = "hooks"
	Rules     ComponentKind = "rules"
	Agents    ComponentKind = "agents"
	Commands  ComponentKind = "commands"
	McpConfig ComponentKind = "mcp"
)

// AllComponents returns every installable component kind in install order.
// Settings goes first so a failed partial run still leaves a usable core.
func AllComponents() []ComponentKind {
	return []ComponentKind{Settings, Skills, Hooks, Rules, Agents, Commands, McpConfig}
}

// MinimalComponents returns the component set for a --minimal install.
func MinimalComponents() []ComponentKind {
	return []ComponentKind{Settings, Rules}
}

// ParseComponent maps a user-supplied name to a ComponentKind.
func ParseComponent(name string) (ComponentKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "settings":
		return Settings, nil
	case "skills":
		return Skills, nil
	case "hooks":
		return Hooks, nil
	case "rules":
		return Rules, nil
	case "agents":
		return Agents, nil
	case "commands":
		return Commands, nil
	case "mcp", "mcp-config":
		return McpConfig, nil
	default:
		return "", errors.Newf("unknown component %q", name)
	}
}

// Profile is a named permission preset for the installed settings.
type Profile string

// Permission profiles, least to most autonomous.
const (
	ProfileConservative Profile = "conservative"
	ProfileBalanced     Profile = "balanced"
	ProfileAutonomous   Profile = "autonomous"
)

// DefaultProfile is used when no profile is requested and as the fallback
// when a requested profile's settings file is absent from the bundle.
const DefaultProfile = ProfileBalanced

// ParseProfile maps a user-supplied name to a Profile.
// An empty name resolves to DefaultProfile.
func ParseProfile(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultProfile, nil
	case "conservative":
		return ProfileConservative, nil
	case "balanced":
		return ProfileBalanced, nil
	case "autonomous":
		return ProfileAutonomous, nil
	default:
		return "", errors.Newf("unknown profile %q (valid: conservative, balanced, autonomous)", name)
	}
}

// LinkMode selects how files are placed at their destinations.
type LinkMode int

const (
	// Copy places full copies of source files.
	Copy LinkMode = iota
	// Symlink places symbolic links, falling back to Copy on failure.
	Symlink
)

// String returns the mode name for logs and reports.
func (m LinkMode) String() string {
	if m == Symlink {
		return "symlink"
	}
	return "copy"
}

// Intent is the resolved set of actions an install invocation performs.
// It is constructed once, either from parsed flags or from interactive
// answers, and is immutable afterwards.
type Intent struct {
	Components []ComponentKind
	Profile    Profile
	LinkMode   LinkMode
	DryRun     bool
	SkipBackup bool

	// Template, when set, requests a single-template install into the
	// working directory instead of a component install.
	Template string
}

// Has reports whether the intent includes the component kind.
func (in *Intent) Has(kind ComponentKind) bool {
	for _, c := range in.Components {
		if c == kind {
			return true
		}
	}
	return false
}

// IntentOptions carries the raw answers from either the flag parser or
// the interactive front-end. Both paths feed the same NewIntent so they
// cannot drift apart.
type IntentOptions struct {
	All        bool
	Minimal    bool
	Components []string
	Profile    string
	Symlink    bool
	DryRun     bool
	SkipBackup bool
	Template   string
}

// NewIntent validates options and builds the immutable Intent.
// An invocation that selects no components and no template is rejected
// here, before any I/O happens.
func NewIntent(opts IntentOptions) (*Intent, error) {
	profile, err := ParseProfile(opts.Profile)
	if err != nil {
		return nil, err
	}

	var components []ComponentKind
	switch {
	case opts.All:
		components = AllComponents()
	case opts.Minimal:
		components = MinimalComponents()
	default:
		seen := map[ComponentKind]bool{}
		for _, name := range opts.Components {
			kind, err := ParseComponent(name)
			if err != nil {
				return nil, err
			}
			if !seen[kind] {
				seen[kind] = true
				components = append(components, kind)
			}
		}
		// Preserve install order regardless of flag order.
		ordered := components[:0]
		for _, kind := range AllComponents() {
			if seen[kind] {
				ordered = append(ordered, kind)
			}
		}
		components = ordered
	}

	if len(components) == 0 && opts.Template == "" {
		return nil, cdoterrors.ErrEmptyIntent
	}

	mode := Copy
	if opts.Symlink {
		mode = Symlink
	}

	return &Intent{
		Components: components,
		Profile:    profile,
		LinkMode:   mode,
		DryRun:     opts.DryRun,
		SkipBackup: opts.SkipBackup,
		Template:   opts.Template,
	}, nil
}
