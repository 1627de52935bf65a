package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirExplicitOverride(t *testing.T) {
	t.Setenv("CHAINLOG_CONFIG_HOME", "/custom/chainlog")
	if got := Dir(); got != "/custom/chainlog" {
		t.Errorf("Dir = %q, want /custom/chainlog", got)
	}
}

func TestDirXDG(t *testing.T) {
	t.Setenv("CHAINLOG_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	want := filepath.Join("/xdg", "chainlog")
	if got := Dir(); got != want {
		t.Errorf("Dir = %q, want %q", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CHAINLOG_CONFIG_HOME", t.TempDir())

	cfg := Load()
	if cfg != (Config{}) {
		t.Errorf("Load with no config file = %+v, want zero config", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	content := "provider: openai\nmodel: mini\nstorage_dir: /data/chains\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHAINLOG_CONFIG_HOME", dir)

	cfg := Load()
	if cfg.Provider != "openai" || cfg.Model != "mini" || cfg.StorageDir != "/data/chains" {
		t.Errorf("Load = %+v", cfg)
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("provider: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHAINLOG_CONFIG_HOME", dir)

	if cfg := Load(); cfg != (Config{}) {
		t.Errorf("Load with broken YAML = %+v, want zero config", cfg)
	}
}
