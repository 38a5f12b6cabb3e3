package seed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/forager/internal/vocab"
)

func writeFile(t *testing.T, dir, name string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), mode); err != nil {
		t.Fatal(err)
	}
}

func TestSeedExecutablesOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "runme", 0o755)
	writeFile(t, dir, "data.txt", 0o644)
	writeFile(t, dir, ".hidden", 0o755)

	v := vocab.New()
	s := New(0, 0, true, nil)
	added := s.Seed(v, dir)

	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}
	if _, ok := v.Find("runme"); !ok {
		t.Error("executable not seeded")
	}
	if _, ok := v.Find("data.txt"); ok {
		t.Error("non-executable seeded")
	}
	if _, ok := v.Find(".hidden"); ok {
		t.Error("dotfile seeded")
	}
}

func TestSeedSkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "real", 0o755)
	if err := os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "alias")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	v := vocab.New()
	New(0, 0, true, nil).Seed(v, dir)
	if _, ok := v.Find("alias"); ok {
		t.Error("symlink seeded despite skip policy")
	}

	v2 := vocab.New()
	New(0, 0, false, nil).Seed(v2, dir)
	if _, ok := v2.Find("alias"); !ok {
		t.Error("symlink skipped with policy off")
	}
}

func TestSeedMultipleDirsAndDedup(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	writeFile(t, dir1, "tool", 0o755)
	writeFile(t, dir2, "tool", 0o755) // same name in both dirs
	writeFile(t, dir2, "other", 0o755)

	v := vocab.New()
	added := New(0, 0, true, nil).Seed(v, dir1+":"+dir2)

	if added != 2 {
		t.Fatalf("added = %d, want 2 (deduplicated)", added)
	}
	if v.Len() != 2 {
		t.Errorf("vocab len = %d, want 2", v.Len())
	}
}

func TestSeedPerDirCap(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d"} {
		writeFile(t, dir, name, 0o755)
	}

	v := vocab.New()
	added := New(2, time.Minute, true, nil).Seed(v, dir)
	if added != 2 {
		t.Fatalf("added = %d with cap 2, want 2", added)
	}
}

func TestSeedUnreadableDirIgnored(t *testing.T) {
	v := vocab.New()
	added := New(0, 0, true, nil).Seed(v, "/nonexistent-forager-dir")
	if added != 0 {
		t.Fatalf("added = %d from a missing directory, want 0", added)
	}
}
