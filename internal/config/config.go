package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/peopleforrester/claude-dotfiles/internal/backup"
	"github.com/peopleforrester/claude-dotfiles/internal/paths"
	"github.com/peopleforrester/claude-dotfiles/pkg/fileutil"
)

// AppName is the application name used for config file placement.
const AppName = "cdot"

// Config represents the top-level configuration structure.
type Config struct {
	Backup BackupConfig `mapstructure:"backup" yaml:"backup"`
	Sync   SyncConfig   `mapstructure:"sync" yaml:"sync"`
}

// BackupConfig controls where archives go and how many are kept.
type BackupConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Retain int    `mapstructure:"retain" yaml:"retain"`
}

// SyncConfig selects and parameterizes the sync backend.
type SyncConfig struct {
	Method     string `mapstructure:"method" yaml:"method"`
	Remote     string `mapstructure:"remote" yaml:"remote"`
	BareDir    string `mapstructure:"bare_dir" yaml:"bare_dir"`
	PackageDir string `mapstructure:"package_dir" yaml:"package_dir"`
}

// Init initializes Viper with defaults and environment bindings.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(paths.StateHome())

	// Environment variable support. The bare repo and package dir keys
	// keep short aliases alongside the mechanical SYNC_ names.
	viper.SetEnvPrefix("CDOT")
	_ = viper.BindEnv("backup.dir", "CDOT_BACKUP_DIR")
	_ = viper.BindEnv("backup.retain", "CDOT_BACKUP_RETAIN")
	_ = viper.BindEnv("sync.method", "CDOT_SYNC_METHOD")
	_ = viper.BindEnv("sync.remote", "CDOT_SYNC_REMOTE")
	_ = viper.BindEnv("sync.bare_dir", "CDOT_BARE_DIR", "CDOT_SYNC_BARE_DIR")
	_ = viper.BindEnv("sync.package_dir", "CDOT_PACKAGE_DIR", "CDOT_SYNC_PACKAGE_DIR")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("backup.dir", paths.DefaultBackupDir())
	viper.SetDefault("backup.retain", backup.DefaultRetention)
	viper.SetDefault("sync.method", "")
	viper.SetDefault("sync.bare_dir", defaultBareDir())
	viper.SetDefault("sync.package_dir", defaultPackageDir())
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches the default location and falls back to
// defaults when no file exists.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errs[0])
	}

	return &cfg, nil
}

// DefaultPath returns the default config file location:
// $XDG_CONFIG_HOME/cdot/config.yaml.
func DefaultPath() string {
	return filepath.Join(paths.StateHome(), "config.yaml")
}

// Save writes cfg to path as YAML, creating parent directories as
// needed. The write is atomic so an interrupted save cannot truncate
// an existing file.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := fileutil.AtomicWriteYAML(path, cfg); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Default returns a configuration with all defaults applied, without
// touching viper state. Useful in tests and as documentation of the
// effective zero configuration.
func Default() *Config {
	return &Config{
		Backup: BackupConfig{
			Dir:    paths.DefaultBackupDir(),
			Retain: backup.DefaultRetention,
		},
		Sync: SyncConfig{
			BareDir:    defaultBareDir(),
			PackageDir: defaultPackageDir(),
		},
	}
}
