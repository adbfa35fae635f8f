// Package install places configuration components from a source bundle
// into their destination directories. It resolves an immutable
// InstallIntent once per invocation (from flags or the interactive
// front-end, through the same constructor), then applies it with
// idempotent ensure-directory-then-place semantics, dry-run simulation,
// and symlink-to-copy fallback.
package install
