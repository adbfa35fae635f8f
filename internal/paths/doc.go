// Package paths resolves platform-specific filesystem locations for cdot:
// the Claude configuration root, OS-specific application-support
// directories, and the backup directory. Operating systems the resolver
// does not recognize degrade to empty paths so callers can warn and skip
// instead of crashing.
package paths
