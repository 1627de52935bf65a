// Package config provides the global configuration for chainlog.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds user-level settings read from <configdir>/config.yaml.
// Every field is optional; zero values mean "use the default".
type Config struct {
	// Provider and Model select the LLM used for tip generation.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	// StorageDir overrides the per-repo storage directory
	// (default: <repo-root>/.chainlog).
	StorageDir string `yaml:"storage_dir"`
}

// Dir returns the chainlog configuration directory.
//
// Resolution:
//   - $CHAINLOG_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/chainlog if set (respects XDG on any platform)
//   - %AppData%/chainlog on Windows
//   - ~/.config/chainlog on macOS and Linux
func Dir() string {
	if dir := os.Getenv("CHAINLOG_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chainlog")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "chainlog")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chainlog")
}

// Load reads the config file from the configuration directory.
// A missing or unreadable file yields the zero config: configuration is
// always optional.
func Load() Config {
	dir := Dir()
	if dir == "" {
		return Config{}
	}
	return loadFile(filepath.Join(dir, "config.yaml"))
}

// loadFile parses a single YAML config file.
// Parse errors yield the zero config rather than failing a command over
// an optional file.
func loadFile(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
