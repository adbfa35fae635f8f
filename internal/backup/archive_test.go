package backup

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTarGzArchiver_RoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "rules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "rules", "style.md"), []byte("# Style\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "run.sh"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.Symlink("run.sh", filepath.Join(src, "run-link")))

	archive := filepath.Join(t.TempDir(), "out.tar.gz")
	a := NewTarGzArchiver()
	require.NoError(t, a.Create(archive, src, nil))

	dst := filepath.Join(t.TempDir(), "restored")
	require.NoError(t, a.Extract(archive, dst))

	data, err := os.ReadFile(filepath.Join(dst, "rules", "style.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Style\n", string(data))

	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100, "executable bit preserved")

	target, err := os.Readlink(filepath.Join(dst, "run-link"))
	require.NoError(t, err)
	assert.Equal(t, "run.sh", target)
}

func TestTarGzArchiver_Excludes(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "todos"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "todos", "x.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "keep.md"), []byte("keep"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "session.log"), []byte("noise"), 0o644))

	archive := filepath.Join(t.TempDir(), "out.tar.gz")
	a := NewTarGzArchiver()
	require.NoError(t, a.Create(archive, src, DefaultExcludes))

	dst := filepath.Join(t.TempDir(), "restored")
	require.NoError(t, a.Extract(archive, dst))

	assert.FileExists(t, filepath.Join(dst, "keep.md"))
	assert.NoDirExists(t, filepath.Join(dst, "todos"))
	assert.NoFileExists(t, filepath.Join(dst, "session.log"))
}

func TestExcluded(t *testing.T) {
	patterns := []string{"todos", "*.log", "shell-snapshots"}

	tests := []struct {
		rel  string
		want bool
	}{
		{"todos", true},
		{"todos/x.json", true},
		{"debug.log", true},
		{"nested/deep/trace.log", true},
		{"shell-snapshots/snap1", true},
		{"skills/tdd/SKILL.md", false},
		{"settings.json", false},
		{"logbook.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, excluded(tt.rel, patterns))
		})
	}
}

func TestTarGzArchiver_ExtractRejectsEscapingPaths(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "evil.tar.gz")

	f, err := os.Create(archive)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     4,
	}))
	_, err = tw.Write([]byte("evil"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	dst := filepath.Join(t.TempDir(), "out")
	err = NewTarGzArchiver().Extract(archive, dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes target")
}
