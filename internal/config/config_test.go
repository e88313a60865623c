package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsHaveThreeWorkspaces(t *testing.T) {
	cfg := Defaults()
	if len(cfg.Workspaces) != 3 {
		t.Fatalf("expected 3 default workspaces, got %d", len(cfg.Workspaces))
	}
	if cfg.Gaps.Inner == "" || cfg.Gaps.Outer == "" {
		t.Fatalf("expected default gaps to be set")
	}
}

func TestLoadFromPathMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if len(cfg.Workspaces) != len(Defaults().Workspaces) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPathMergesOverGaps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := "gaps:\n  inner: 20px\n  outer: 4%\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Gaps.Inner != "20px" || cfg.Gaps.Outer != "4%" {
		t.Fatalf("expected overridden gaps, got %+v", cfg.Gaps)
	}
	if len(cfg.Workspaces) != len(Defaults().Workspaces) {
		t.Fatalf("expected default workspaces preserved when file omits them, got %+v", cfg.Workspaces)
	}
}

func TestLoadFromPathReplacesWorkspaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := "workspaces:\n  - name: code\n    displayName: Code\n    keepAlive: true\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if len(cfg.Workspaces) != 1 || cfg.Workspaces[0].Name != "code" {
		t.Fatalf("expected single workspace override, got %+v", cfg.Workspaces)
	}
}
