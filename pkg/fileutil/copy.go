package fileutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// CopyFile copies a single file from src to dst, preserving the source
// file's permission bits (including the executable bit). The destination's
// parent directory must already exist.
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return errors.Wrap(err, "stat source file")
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "creating destination file")
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return errors.Wrap(err, "setting permissions")
	}

	return nil
}

// CopyDir recursively copies the directory tree rooted at src into dst,
// creating dst if needed. File permission bits are preserved. Symlinks
// inside the tree are followed (their targets are copied).
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(err, "stat source directory")
	}
	if !srcInfo.IsDir() {
		return errors.Newf("%s is not a directory", src)
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return errors.Wrap(err, "creating destination directory")
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Wrap(err, "computing relative path")
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return errors.Wrapf(err, "stat %s", path)
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}

		return CopyFile(path, target)
	})
}

// Exists reports whether the path exists (file or directory).
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether the path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
