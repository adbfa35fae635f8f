package sync

import (
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/peopleforrester/claude-dotfiles/internal/backup"
	cdoterrors "github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/logging"
	"github.com/peopleforrester/claude-dotfiles/internal/paths"
)

// Backend is the three-operation contract every sync strategy implements.
type Backend interface {
	// Name returns the backend identifier used with --method.
	Name() string

	// Available probes the backend's preconditions: required tool on
	// PATH, expected directory present, required configuration set.
	Available() bool

	// Push propagates local configuration outward.
	Push() error

	// Pull brings remote configuration into the local installation.
	Pull() error

	// Status reports pending differences without applying anything.
	Status() (string, error)

	// Remediation returns one line telling the user how to make this
	// backend available.
	Remediation() string
}

// Initializer is implemented by backends with a one-time bootstrap step.
type Initializer interface {
	// Init bootstraps the backend's metadata exactly once; it fails
	// clearly when the location is already initialized.
	Init() error
}

// Config carries everything the backends need. Values come from viper
// config and environment overrides, resolved once at the entry point.
type Config struct {
	// ConfigRoot is the live configuration directory (~/.claude).
	ConfigRoot string

	// Remote is the rsync destination, e.g. "host:~/claude-config".
	Remote string

	// BareDir is the bare repository metadata directory.
	BareDir string

	// PackageDir is the symlink-farm staging directory.
	PackageDir string

	// Excludes are glob patterns for machine-local state that never
	// travels; defaults to the backup exclude set.
	Excludes []string

	// Runner executes external tools; defaults to the exec-backed Runner.
	Runner Runner

	// Logger defaults to the package default.
	Logger *slog.Logger
}

func (c *Config) fillDefaults() {
	if c.ConfigRoot == "" {
		c.ConfigRoot = paths.ConfigHome()
	}
	if c.Excludes == nil {
		c.Excludes = backup.DefaultExcludes
	}
	if c.Runner == nil {
		c.Runner = NewRunner()
	}
	if c.Logger == nil {
		c.Logger = logging.Default()
	}
}

// Orchestrator selects a backend and delegates push/pull/status to it.
type Orchestrator struct {
	cfg      Config
	backends []Backend
}

// NewOrchestrator builds the orchestrator with backends in the fixed
// auto-detection precedence order.
func NewOrchestrator(cfg Config) *Orchestrator {
	cfg.fillDefaults()
	return &Orchestrator{
		cfg: cfg,
		backends: []Backend{
			newChezmoiBackend(cfg),
			newStowBackend(cfg),
			newRsyncBackend(cfg),
			newBareBackend(cfg),
		},
	}
}

// Backends returns the backends in precedence order.
func (o *Orchestrator) Backends() []Backend {
	return o.backends
}

// Select resolves the backend to use. An explicit method name must match
// an available backend; an unavailable explicit backend is fatal. With no
// method, auto-detection returns the first available backend in precedence
// order, or ErrNoStrategy with per-backend remediation text.
func (o *Orchestrator) Select(method string) (Backend, error) {
	if method != "" {
		for _, b := range o.backends {
			if b.Name() != strings.ToLower(strings.TrimSpace(method)) {
				continue
			}
			if !b.Available() {
				return nil, errors.Wrapf(cdoterrors.ErrBackendUnavailable,
					"%s: %s", b.Name(), b.Remediation())
			}
			return b, nil
		}
		return nil, errors.Newf("unknown sync method %q (valid: %s)", method, o.methodNames())
	}

	for _, b := range o.backends {
		if b.Available() {
			o.cfg.Logger.Debug("auto-detected sync backend", "backend", b.Name())
			return b, nil
		}
	}

	var sb strings.Builder
	sb.WriteString("no sync strategy available; to enable one:")
	for _, b := range o.backends {
		sb.WriteString("\n  ")
		sb.WriteString(b.Name())
		sb.WriteString(": ")
		sb.WriteString(b.Remediation())
	}
	return nil, errors.Wrap(cdoterrors.ErrNoStrategy, sb.String())
}

func (o *Orchestrator) methodNames() string {
	names := make([]string, len(o.backends))
	for i, b := range o.backends {
		names[i] = b.Name()
	}
	return strings.Join(names, ", ")
}
