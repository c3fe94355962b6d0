package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigMatchesSpecBaseline(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TabWidth != 4 {
		t.Errorf("TabWidth = %d, want 4", cfg.TabWidth)
	}
	if cfg.DebugMode || cfg.Optimize || cfg.IncludeComments {
		t.Error("expected all boolean options to default to false")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TabWidth != 4 {
		t.Errorf("TabWidth = %d, want 4 (default)", cfg.TabWidth)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := DefaultConfig()
	cfg.DebugMode = true
	cfg.OutputFile = "out.osflc"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("unexpected error saving config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}
	if !loaded.DebugMode {
		t.Error("expected DebugMode to round-trip as true")
	}
	if loaded.OutputFile != "out.osflc" {
		t.Errorf("OutputFile = %q, want %q", loaded.OutputFile, "out.osflc")
	}
}
