// Package backup creates, rotates, and restores timestamped compressed
// snapshots of the Claude configuration directory. Archive filenames embed
// a fixed-width timestamp so plain string ordering is chronological; a
// "latest" pointer file always resolves to the most recent archive.
package backup
