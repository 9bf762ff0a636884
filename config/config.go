package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds ambient assembler settings. The ISA's own parameters
// (word size, address space) are fixed by the assembler, not configurable
// here. Of these settings only Limits.MaxLabelLength is consulted, as the
// linter's label-length threshold; the other fields are loaded and saved
// but do not affect assembly or the output files.
type Config struct {
	Limits struct {
		MaxLabelLength int `toml:"max_label_length"`
		MaxLineLength  int `toml:"max_line_length"`
	} `toml:"limits"`

	Output struct {
		OctalWidth int  `toml:"octal_width"`
		KeepAmFile bool `toml:"keep_am_file"`
	} `toml:"output"`
}

// DefaultConfig reproduces the assembler's built-in constants exactly, so
// assembly semantics never depend on whether a config file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Limits.MaxLabelLength = 31
	cfg.Limits.MaxLineLength = 80
	cfg.Output.OctalWidth = 5
	cfg.Output.KeepAmFile = true
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
		configDir = filepath.Join(configDir, "asm15")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "asm15")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to defaults if the
// file does not exist.
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

	f, err := os.Create(path) // #nosec G304 -- user config file path
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
