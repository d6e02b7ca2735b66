// Package config loads the optional YAML configuration file.
//
// Lookup order: an explicit path, then $XDG_CONFIG_HOME/todos/config.yaml
// (or $HOME/.config/todos/config.yaml). A missing default file is not an
// error; command-line flags override whatever the file sets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName names the config and data directories.
const AppName = "todos"

// ConfigFile is the file name looked up in the config directory.
const ConfigFile = "config.yaml"

// DefaultAddr is the HTTP listen address used by serve.
const DefaultAddr = "127.0.0.1:8080"

// Config holds the settings a command runs with.
type Config struct {
	DB      string      `mapstructure:"db" json:"db"`
	Format  string      `mapstructure:"format" json:"format"`
	Verbose bool        `mapstructure:"verbose" json:"verbose"`
	Serve   ServeConfig `mapstructure:"serve" json:"serve"`
}

// ServeConfig holds HTTP surface settings.
type ServeConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DB:     DefaultDBPath(),
		Format: "text",
		Serve:  ServeConfig{Addr: DefaultAddr},
	}
}

// Load reads path over the defaults and validates the result.
// An empty path means the default location, which may be absent.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := loadFile(path, cfg); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.DB = ExpandHome(cfg.DB)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// DefaultDir returns the configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), ConfigFile)
}

// DefaultDBPath returns where the task database lives by default.
// Uses XDG_DATA_HOME if set, otherwise $HOME/.local/share.
func DefaultDBPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, "todos.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "todos.db"
	}
	return filepath.Join(home, ".local", "share", AppName, "todos.db")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
