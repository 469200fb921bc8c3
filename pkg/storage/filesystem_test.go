package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	name, err := store.Save("CLG001/register.csv", []byte("Date,Student,Status,Notes\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if name != "CLG001/register.csv" {
		t.Fatalf("unexpected name %q", name)
	}
	if _, err := os.Stat(store.Path(name)); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if got, want := store.Path(""), dir; got != want {
		t.Fatalf("base path = %q, want %q", got, want)
	}
}

func TestCleanupOlderThanRemovesExpiredOnly(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	if _, err := store.Save("old.csv", []byte("stale")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save("fresh.csv", []byte("recent")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(store.Path("old.csv"), stale, stale); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	removed, err := store.CleanupOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("CleanupOlderThan: %v", err)
	}
	if len(removed) != 1 || removed[0] != "old.csv" {
		t.Fatalf("removed = %v, want [old.csv]", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "fresh.csv")); err != nil {
		t.Fatalf("fresh file removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.csv")); !os.IsNotExist(err) {
		t.Fatalf("stale file still present")
	}
}
