package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Memory.RodataBase != 0x400 {
		t.Errorf("RodataBase = 0x%X, want 0x400", cfg.Memory.RodataBase)
	}
	if cfg.Memory.StackTop != 0x300 {
		t.Errorf("StackTop = 0x%X, want 0x300", cfg.Memory.StackTop)
	}
	if cfg.Output.ListingSuffix != ".listing" {
		t.Errorf("ListingSuffix = %q, want .listing", cfg.Output.ListingSuffix)
	}
	if !cfg.Translate.EmitUntranslatedComments {
		t.Error("expected EmitUntranslatedComments=true by default")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Fatal("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected path to end with config.toml, got %s", path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Memory.RodataBase = 0x800
	cfg.Memory.StackTop = 0x600
	cfg.Translate.WarnOnUnguardedBranch = false

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Memory.RodataBase != 0x800 {
		t.Errorf("RodataBase = 0x%X, want 0x800", loaded.Memory.RodataBase)
	}
	if loaded.Memory.StackTop != 0x600 {
		t.Errorf("StackTop = 0x%X, want 0x600", loaded.Memory.StackTop)
	}
	if loaded.Translate.WarnOnUnguardedBranch {
		t.Error("expected WarnOnUnguardedBranch=false")
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on missing file: %v", err)
	}
	if cfg.Memory.RodataBase != 0x400 {
		t.Error("expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := "[memory]\nrodata_base = \"not a number\"\n"
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}
