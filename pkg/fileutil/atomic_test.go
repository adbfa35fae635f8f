package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{
			name: "plain text",
			data: []byte("hello world\n"),
			perm: 0o644,
		},
		{
			name: "empty data",
			data: []byte{},
			perm: 0o644,
		},
		{
			name: "executable permissions",
			data: []byte("#!/bin/sh\nnotify-send done\n"),
			perm: 0o755,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "test-file")

			if err := AtomicWriteFile(path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading file: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stating file: %v", err)
			}
			if gotPerm := info.Mode().Perm(); gotPerm != tt.perm {
				t.Errorf("permissions = %o, want %o", gotPerm, tt.perm)
			}
		})
	}
}

func TestAtomicWriteFile_DirectoryNotExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent", "file.txt")

	if err := AtomicWriteFile(path, []byte("data"), 0o600); err == nil {
		t.Error("AtomicWriteFile() expected error for nonexistent directory")
	}
}

func TestAtomicWriteFile_PreservesOriginalOnNoTempLeak(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := AtomicWriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only final file in directory, got %d entries", len(entries))
	}

	got, _ := os.ReadFile(path)
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
}

func TestAtomicWriteYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")

	v := struct {
		Name string `yaml:"name"`
	}{Name: "tdd"}

	if err := AtomicWriteYAML(path, v); err != nil {
		t.Fatalf("AtomicWriteYAML() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "name: tdd\n" {
		t.Errorf("content = %q", data)
	}
}
