package backup

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Archiver creates and extracts configuration snapshots. It is an
// interface so callers and tests can substitute a fake instead of
// touching real archives.
type Archiver interface {
	// Create writes an archive of sourceDir to archivePath, skipping
	// entries matched by the exclude patterns.
	Create(archivePath, sourceDir string, excludes []string) error

	// Extract unpacks an archive into targetDir, creating it if needed.
	Extract(archivePath, targetDir string) error
}

// tarGzArchiver implements Archiver with archive/tar and compress/gzip.
type tarGzArchiver struct{}

// NewTarGzArchiver returns the default tar.gz Archiver.
func NewTarGzArchiver() Archiver {
	return tarGzArchiver{}
}

func (tarGzArchiver) Create(archivePath, sourceDir string, excludes []string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return errors.Wrap(err, "creating archive file")
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	tw := tar.NewWriter(gw)

	walkErr := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return errors.Wrap(err, "computing relative path")
		}
		if rel == "." {
			return nil
		}

		if excluded(rel, excludes) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return errors.Wrapf(err, "stat %s", path)
		}

		// Regular files and directories only; sockets and pipes are
		// machine-local by definition. Symlinks are stored as links.
		link := ""
		if info.Mode()&fs.ModeSymlink != 0 {
			link, err = os.Readlink(path)
			if err != nil {
				return errors.Wrapf(err, "readlink %s", path)
			}
		} else if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return errors.Wrapf(err, "building header for %s", rel)
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return errors.Wrapf(err, "writing header for %s", rel)
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "opening %s", path)
		}
		defer f.Close()

		if _, err := io.Copy(tw, f); err != nil {
			return errors.Wrapf(err, "archiving %s", rel)
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	if err := tw.Close(); err != nil {
		return errors.Wrap(err, "closing tar writer")
	}
	if err := gw.Close(); err != nil {
		return errors.Wrap(err, "closing gzip writer")
	}
	return out.Close()
}

func (tarGzArchiver) Extract(archivePath, targetDir string) error {
	in, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "opening archive")
	}
	defer in.Close()

	gr, err := gzip.NewReader(in)
	if err != nil {
		return errors.Wrap(err, "reading gzip header")
	}
	defer gr.Close()

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return errors.Wrap(err, "creating target directory")
	}

	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading archive entry")
		}

		name := filepath.FromSlash(hdr.Name)
		if !filepath.IsLocal(name) {
			return errors.Newf("archive entry escapes target: %s", hdr.Name)
		}
		dest := filepath.Join(targetDir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, hdr.FileInfo().Mode().Perm()); err != nil {
				return errors.Wrapf(err, "creating directory %s", hdr.Name)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return errors.Wrapf(err, "creating parent for %s", hdr.Name)
			}
			os.Remove(dest)
			if err := os.Symlink(hdr.Linkname, dest); err != nil {
				return errors.Wrapf(err, "restoring symlink %s", hdr.Name)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return errors.Wrapf(err, "creating parent for %s", hdr.Name)
			}
			f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return errors.Wrapf(err, "creating %s", hdr.Name)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return errors.Wrapf(err, "extracting %s", hdr.Name)
			}
			if err := f.Close(); err != nil {
				return errors.Wrapf(err, "closing %s", hdr.Name)
			}
		}
	}
}

// MatchesExclude reports whether a relative path matches any exclude
// pattern, using the same rules archive creation applies. Sync backends
// share it so a file excluded from backups is also excluded from transfer.
func MatchesExclude(rel string, patterns []string) bool {
	return excluded(rel, patterns)
}

// excluded reports whether the relative path matches any exclude pattern.
// A pattern matches when it matches the base name, the full relative path,
// or any leading path segment (so "todos" excludes the whole subtree).
func excluded(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}

	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, rel); ok {
			return true
		}
		for _, seg := range strings.Split(rel, "/") {
			if ok, _ := filepath.Match(pat, seg); ok {
				return true
			}
		}
	}
	return false
}
