// Package config loads the assembler's default memory-layout and
// output-naming settings from an optional TOML file, following the
// teacher's DefaultConfig/Load/Save shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the settings an assembly run can draw on when a CLI flag
// doesn't override them.
type Config struct {
	Memory struct {
		RodataBase int64 `toml:"rodata_base"`
		StackTop   int64 `toml:"stack_top"`
	} `toml:"memory"`

	Output struct {
		ListingSuffix string `toml:"listing_suffix"`
		VerilogSuffix string `toml:"verilog_suffix"`
		IcacheSuffix  string `toml:"icache_suffix"`
		DcacheSuffix  string `toml:"dcache_suffix"`
	} `toml:"output"`

	Translate struct {
		EmitUntranslatedComments bool `toml:"emit_untranslated_comments"`
		WarnOnUnguardedBranch    bool `toml:"warn_on_unguarded_branch"`
	} `toml:"translate"`
}

// DefaultConfig returns the built-in settings, matching the Python
// reference's DEFAULT_RODATA_BASE/DEFAULT_STACK_TOP constants.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Memory.RodataBase = 0x400
	cfg.Memory.StackTop = 0x300

	cfg.Output.ListingSuffix = ".listing"
	cfg.Output.VerilogSuffix = ".vh"
	cfg.Output.IcacheSuffix = ".imem.hex"
	cfg.Output.DcacheSuffix = ".dmem.hex"

	cfg.Translate.EmitUntranslatedComments = true
	cfg.Translate.WarnOnUnguardedBranch = true
	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rv32i-toolchain")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rv32i-toolchain")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file, falling back to
// defaults when it doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to defaults when
// the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user-provided config path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
