package backup

import (
	"strings"
	"time"
)

// Archive naming. The timestamp layout is fixed width and zero padded so
// that lexical filename order is chronological order; rotation and latest
// selection rely on this and never parse timestamps.
const (
	// Prefix starts every archive filename.
	Prefix = "backup-"

	// TimestampLayout is the fixed-width timestamp embedded in filenames.
	TimestampLayout = "20060102-150405"

	// Suffix ends every archive filename.
	Suffix = ".tar.gz"

	// LatestPointerName is the pointer file tracking the newest archive.
	// It holds the archive's filename, not a path.
	LatestPointerName = "latest"

	// DefaultRetention is the default number of archives kept by rotation.
	DefaultRetention = 10
)

// DefaultExcludes are glob patterns for machine-local and session state
// that never belongs in a backup or a sync transfer.
var DefaultExcludes = []string{
	"projects",
	"todos",
	"statsig",
	"shell-snapshots",
	"file-history",
	"*.log",
	"*.tmp",
	".DS_Store",
}

// Record describes one archive on disk.
type Record struct {
	// Path is the absolute location of the archive file.
	Path string

	// Name is the archive filename (Prefix + timestamp + Suffix).
	Name string

	// CreatedAt is the creation time parsed from the filename.
	CreatedAt time.Time

	// SizeBytes is the archive size.
	SizeBytes int64
}

// ArchiveName builds an archive filename for the given time.
func ArchiveName(t time.Time) string {
	return Prefix + t.Format(TimestampLayout) + Suffix
}

// ParseArchiveName extracts the creation time from an archive filename.
// Returns false when the name does not follow the archive naming scheme.
func ParseArchiveName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, Prefix) || !strings.HasSuffix(name, Suffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, Prefix), Suffix)
	t, err := time.ParseInLocation(TimestampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
