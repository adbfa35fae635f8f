package backup

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	cdoterrors "github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/internal/logging"
	"github.com/peopleforrester/claude-dotfiles/internal/paths"
	"github.com/peopleforrester/claude-dotfiles/pkg/fileutil"
)

// Manager handles backup creation, rotation, restoration, and cleanup.
type Manager struct {
	dir       string
	retention int
	archiver  Archiver
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithDir sets the backup directory.
func WithDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.dir = dir
		}
	}
}

// WithRetention sets the number of archives kept by Rotate.
func WithRetention(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retention = n
		}
	}
}

// WithArchiver substitutes the Archiver implementation; used by tests.
func WithArchiver(a Archiver) Option {
	return func(m *Manager) {
		m.archiver = a
	}
}

// WithLogger sets the logger for progress and warning output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock substitutes the time source; used by tests to control
// archive timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		dir:       paths.DefaultBackupDir(),
		retention: DefaultRetention,
		archiver:  NewTarGzArchiver(),
		logger:    logging.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Retention returns the configured retention count.
func (m *Manager) Retention() int {
	return m.retention
}

// Create archives sourceDir into a new timestamped backup, excluding the
// given patterns (DefaultExcludes when nil). The archive is written to a
// temporary name and renamed on success so a failed run never leaves a
// partial archive behind. The latest pointer is updated on success.
func (m *Manager) Create(sourceDir string, excludes []string) (*Record, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(cdoterrors.ErrSourceMissing, "%s", sourceDir)
		}
		return nil, errors.Wrapf(err, "stat %s", sourceDir)
	}
	if !info.IsDir() {
		return nil, errors.Newf("%s is not a directory", sourceDir)
	}

	if excludes == nil {
		excludes = DefaultExcludes
	}

	if err := paths.EnsureDir(m.dir, 0); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	name := ArchiveName(m.now())
	finalPath := filepath.Join(m.dir, name)
	partialPath := finalPath + ".partial"

	m.logger.Debug("creating backup", "source", sourceDir, "archive", name)

	if err := m.archiver.Create(partialPath, sourceDir, excludes); err != nil {
		os.Remove(partialPath)
		return nil, errors.Wrap(err, "creating archive")
	}

	if err := os.Rename(partialPath, finalPath); err != nil {
		os.Remove(partialPath)
		return nil, errors.Wrap(err, "finalizing archive")
	}

	stat, err := os.Stat(finalPath)
	if err != nil {
		return nil, errors.Wrap(err, "archive missing after creation")
	}

	if err := m.setLatest(name); err != nil {
		// The archive is valid even when the pointer update fails.
		m.logger.Warn("failed to update latest pointer", "error", err)
	}

	createdAt, _ := ParseArchiveName(name)
	return &Record{
		Path:      finalPath,
		Name:      name,
		CreatedAt: createdAt,
		SizeBytes: stat.Size(),
	}, nil
}

// List returns all archives in the backup directory, newest first.
// A missing or empty directory yields an empty slice, not an error.
func (m *Manager) List() ([]Record, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		createdAt, ok := ParseArchiveName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		records = append(records, Record{
			Path:      filepath.Join(m.dir, entry.Name()),
			Name:      entry.Name(),
			CreatedAt: createdAt,
			SizeBytes: info.Size(),
		})
	}

	// Fixed-width timestamps make lexical order chronological.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name > records[j].Name
	})

	return records, nil
}

// Rotate deletes the oldest archives beyond keep, returning the deleted
// records. The latest pointer target is never deleted.
func (m *Manager) Rotate(keep int) ([]Record, error) {
	if keep <= 0 {
		keep = m.retention
	}

	records, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(records) <= keep {
		return nil, nil
	}

	latest, _ := m.latestName()

	var deleted []Record
	for _, rec := range records[keep:] {
		if rec.Name == latest {
			continue
		}
		if err := os.Remove(rec.Path); err != nil {
			return deleted, errors.Wrapf(err, "removing %s", rec.Name)
		}
		m.logger.Debug("rotated out backup", "archive", rec.Name)
		deleted = append(deleted, rec)
	}

	return deleted, nil
}

// Resolve maps a user-supplied reference to an archive path. An empty
// reference resolves through the latest pointer, falling back to the
// newest archive by filename. Returns ErrBackupNotFound when nothing
// is resolvable.
func (m *Manager) Resolve(ref string) (string, error) {
	if ref != "" {
		// Accept a bare archive name or a full path.
		candidate := ref
		if !strings.ContainsRune(ref, os.PathSeparator) {
			candidate = filepath.Join(m.dir, ref)
		}
		if fileutil.Exists(candidate) {
			return candidate, nil
		}
		return "", errors.Wrapf(cdoterrors.ErrBackupNotFound, "%s", ref)
	}

	if name, err := m.latestName(); err == nil && name != "" {
		candidate := filepath.Join(m.dir, name)
		if fileutil.Exists(candidate) {
			return candidate, nil
		}
	}

	records, err := m.List()
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", cdoterrors.ErrBackupNotFound
	}
	return records[0].Path, nil
}

// Restore replaces targetDir with the contents of the referenced archive.
// The caller must pass confirmed=true; restoration without it aborts with
// ErrConfirmationDeclined. A pre-restore snapshot of the current state is
// attempted first; its failure is reported but does not block the restore.
func (m *Manager) Restore(ref, targetDir string, confirmed bool) error {
	if !confirmed {
		return cdoterrors.ErrConfirmationDeclined
	}

	archivePath, err := m.Resolve(ref)
	if err != nil {
		return err
	}

	// Safety snapshot so the restore itself is reversible.
	if fileutil.IsDir(targetDir) {
		if _, err := m.Create(targetDir, nil); err != nil {
			m.logger.Warn("pre-restore snapshot failed", "error", err)
		} else {
			m.logger.Info("created pre-restore snapshot of current state")
		}
	}

	m.logger.Info("restoring backup", "archive", filepath.Base(archivePath), "target", targetDir)

	if err := os.RemoveAll(targetDir); err != nil {
		return errors.Wrap(err, "clearing target directory")
	}
	if err := m.archiver.Extract(archivePath, targetDir); err != nil {
		return errors.Wrap(err, "extracting archive")
	}

	return nil
}

// Clean deletes every archive and the latest pointer. The caller must pass
// confirmed=true. Returns the number of archives deleted.
func (m *Manager) Clean(confirmed bool) (int, error) {
	if !confirmed {
		return 0, cdoterrors.ErrConfirmationDeclined
	}

	records, err := m.List()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, rec := range records {
		if err := os.Remove(rec.Path); err != nil {
			return deleted, errors.Wrapf(err, "removing %s", rec.Name)
		}
		deleted++
	}

	os.Remove(filepath.Join(m.dir, LatestPointerName))

	return deleted, nil
}

// setLatest points the latest pointer at the named archive. The pointer is
// a small file holding the archive filename; a plain file survives
// filesystems and platforms where symlinks need elevated privileges.
func (m *Manager) setLatest(name string) error {
	return fileutil.AtomicWriteFile(filepath.Join(m.dir, LatestPointerName), []byte(name+"\n"), 0o644)
}

// latestName reads the latest pointer. Returns an empty name when the
// pointer does not exist.
func (m *Manager) latestName() (string, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, LatestPointerName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "reading latest pointer")
	}
	return strings.TrimSpace(string(data)), nil
}
