package fsx

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestOpenFile(t *testing.T) {
	t.Run("with a regular file", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "script.py")
		if err := os.WriteFile(name, []byte("# stub\n"), 0644); err != nil {
			t.Fatal(err)
		}
		file, err := OpenFile(name)
		if err != nil {
			t.Fatal(err)
		}
		file.Close()
	})

	t.Run("with a nonexistent file", func(t *testing.T) {
		file, err := OpenFile(filepath.Join(t.TempDir(), "missing.py"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatal("unexpected error", err)
		}
		if file != nil {
			t.Fatal("expected nil file")
		}
	})

	t.Run("with a directory", func(t *testing.T) {
		file, err := OpenFile(t.TempDir())
		if !errors.Is(err, syscall.EISDIR) {
			t.Fatal("unexpected error", err)
		}
		if file != nil {
			t.Fatal("expected nil file")
		}
	})
}

func TestDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	if !DirectoryExists(dir) {
		t.Fatal("expected true for a directory")
	}
	if DirectoryExists(filepath.Join(dir, "missing")) {
		t.Fatal("expected false for a missing path")
	}
	name := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if DirectoryExists(name) {
		t.Fatal("expected false for a regular file")
	}
}
