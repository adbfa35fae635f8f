// Package config provides configuration management for the cdot CLI.
//
// This package handles loading and validating cdot's own configuration
// file. It is distinct from the Claude configuration the tool installs
// and syncs, which lives under ~/.claude.
//
// # Configuration File
//
// The default configuration file location is ~/.config/cdot/config.yaml.
// The file uses YAML format with the following structure:
//
//	backup:
//	  dir: /custom/backups   # optional
//	  retain: 10
//	sync:
//	  method: chezmoi        # optional, auto-detect when empty
//	  remote: host:~/claude-config
//	  bare_dir: ~/.cfg
//	  package_dir: ~/.config/cdot/stow
//
// # Environment Overrides
//
// Every key can be overridden with a CDOT_ environment variable:
// CDOT_BACKUP_DIR, CDOT_BACKUP_RETAIN, CDOT_SYNC_METHOD,
// CDOT_SYNC_REMOTE, CDOT_BARE_DIR, CDOT_PACKAGE_DIR. Environment
// values take precedence over the config file.
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//
// A missing config file is not an error when no explicit path is given;
// defaults apply.
package config
