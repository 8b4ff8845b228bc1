package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/kensho/internal/cli"
)

func TestClientTimeout(t *testing.T) {
	if got := clientTimeout("/api/v1/queries/verify"); got != 30*time.Second {
		t.Errorf("expected 30s for verify, got %s", got)
	}
	if got := clientTimeout("/api/v1/documents"); got != 10*time.Second {
		t.Errorf("expected 10s for registry calls, got %s", got)
	}
}

func TestParseFormat(t *testing.T) {
	if parseFormat("json") != cli.OutputJSON {
		t.Error("expected json format")
	}
	if parseFormat("text") != cli.OutputText {
		t.Error("expected text format")
	}
	if parseFormat("bogus") != cli.OutputText {
		t.Error("unknown formats fall back to text")
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kensho.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Errorf("expected resolved path %s, got %s", path, resolved)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("got port %d", cfg.Server.Port)
	}
}
