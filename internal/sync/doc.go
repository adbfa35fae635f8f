// Package sync propagates the installed configuration between machines
// through one of four pluggable backends: a managed version-controlled
// dotfile tool (chezmoi), a stow-style symlink farm, a mirrored remote
// copy (rsync), or a bare git repository over the home directory. Backend
// auto-detection probes a fixed precedence order; external tools are
// invoked through a Runner interface so adapters are testable with fakes.
package sync
