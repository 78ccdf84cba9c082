// Package config loads mcp-tmux configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (MCP_TMUX_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .mcp-tmux.yaml in the current directory
//  2. ~/.config/mcp-tmux/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all mcp-tmux configuration.
type Config struct {
	// Default target components used when a request omits them.
	Session string `yaml:"session"`
	Host    string `yaml:"host"`

	// Multiplexer invocation.
	TmuxBin   string   `yaml:"tmux_bin"`
	PathAdd   []string `yaml:"path_add"`
	TimeoutMS int      `yaml:"timeout_ms"`

	// Persisted state locations.
	HostsFile    string `yaml:"hosts_file"`
	LogDir       string `yaml:"log_dir"`
	DefaultsFile string `yaml:"defaults_file"`
	LayoutsFile  string `yaml:"layouts_file"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"`

	// ConfigFile is the path of the loaded file (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		TmuxBin:      "tmux",
		TimeoutMS:    15000,
		HostsFile:    configPath("hosts.yaml"),
		DefaultsFile: configPath("defaults.json"),
		LayoutsFile:  configPath("layouts.yaml"),
	}
}

// Load reads configuration from file and environment variables. Environment
// variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	if cfg.TimeoutMS <= 0 {
		cfg.TimeoutMS = 15000
	}
	return cfg, nil
}

func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".mcp-tmux.yaml"); err == nil {
		return ".mcp-tmux.yaml", data, nil
	}
	path := configPath("config.yaml")
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}
	return "", nil, fmt.Errorf("no config file found")
}

// configPath returns a file under the mcp-tmux config directory, honoring
// XDG_CONFIG_HOME with a ~/.config fallback.
func configPath(name string) string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mcp-tmux", name)
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg, file *Config) {
	if file.Session != "" {
		cfg.Session = file.Session
	}
	if file.Host != "" {
		cfg.Host = file.Host
	}
	if file.TmuxBin != "" {
		cfg.TmuxBin = file.TmuxBin
	}
	if len(file.PathAdd) > 0 {
		cfg.PathAdd = file.PathAdd
	}
	if file.TimeoutMS > 0 {
		cfg.TimeoutMS = file.TimeoutMS
	}
	if file.HostsFile != "" {
		cfg.HostsFile = file.HostsFile
	}
	if file.LogDir != "" {
		cfg.LogDir = file.LogDir
	}
	if file.DefaultsFile != "" {
		cfg.DefaultsFile = file.DefaultsFile
	}
	if file.LayoutsFile != "" {
		cfg.LayoutsFile = file.LayoutsFile
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies MCP_TMUX_* environment overrides onto cfg.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("MCP_TMUX_SESSION"); v != "" {
		cfg.Session = v
	}
	if v := os.Getenv("MCP_TMUX_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("MCP_TMUX_BIN"); v != "" {
		cfg.TmuxBin = v
	}
	if v := os.Getenv("MCP_TMUX_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.TimeoutMS = ms
		}
	}
	if v := os.Getenv("MCP_TMUX_HOSTS_FILE"); v != "" {
		cfg.HostsFile = v
	}
	if v := os.Getenv("MCP_TMUX_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("MCP_TMUX_DEFAULTS_FILE"); v != "" {
		cfg.DefaultsFile = v
	}
	if v := os.Getenv("MCP_TMUX_LAYOUTS_FILE"); v != "" {
		cfg.LayoutsFile = v
	}
	if v := os.Getenv("MCP_TMUX_OTEL_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("MCP_TMUX_OTEL_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}
