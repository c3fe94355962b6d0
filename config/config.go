// Package config implements §6's "Configuration struct": the
// recognized options plumbed through the CLI and lexer/compiler/VM
// orchestration. Grounded on
// lookbusy1344-arm_emulator/config/config.go's DefaultConfig()/Load()
// pattern, trimmed to the fields spec.md actually names.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the recognized options §6 lists: lexer advisories,
// orchestration file paths, and debug/optimize toggles.
type Config struct {
	TabWidth        uint   `toml:"tab_width"`
	IncludeComments bool   `toml:"include_comments"`
	InputFile       string `toml:"input_file"`
	OutputFile      string `toml:"output_file"`
	DebugMode       bool   `toml:"debug_mode"`
	Optimize        bool   `toml:"optimize"`
}

// DefaultConfig returns §6's baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		TabWidth:        4,
		IncludeComments: false,
		DebugMode:       false,
		Optimize:        false,
	}
}

// Load reads a TOML config file at path, overlaying it onto
// DefaultConfig. A missing file is not an error — the defaults are
// returned unchanged, mirroring the arm_emulator LoadFrom contract.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
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
