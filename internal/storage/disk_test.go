package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	files := map[string]int{
		"registry.db":     100,
		"registry.db-wal": 50,
		"registry.db-shm": 25,
	}
	for name, size := range files {
		if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0600); err != nil {
			t.Fatal(err)
		}
	}

	got, err := DiskUsageBytes(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != 175 {
		t.Errorf("expected 175 bytes including sidecars, got %d", got)
	}

	got, err = DiskUsageBytes(filepath.Join(dir, "registry.db"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 100 {
		t.Errorf("expected 100 bytes for a single file, got %d", got)
	}

	got, err = DiskUsageBytes(filepath.Join(dir, "missing"), "")
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("missing and empty paths should be skipped, got %d", got)
	}
}
