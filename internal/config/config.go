// Package config loads the optional YAML settings of the treelox host.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable pointing at a config file.
const EnvConfigPath = "TREELOX_CONFIG"

const defaultFileName = ".treelox.yaml"

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

var ErrInvalidColorMode = errors.New("invalid color mode")

type Config struct {
	// Path is the file the config was loaded from, empty for defaults.
	Path        string    `yaml:"-"`
	Prompt      string    `yaml:"prompt"`
	HistoryFile string    `yaml:"history_file"`
	Color       ColorMode `yaml:"color"`
}

func Default() *Config {
	return &Config{
		Prompt:      "> ",
		HistoryFile: "~/.treelox_history",
		Color:       ColorAuto,
	}
}

// Load parses the YAML file at path on top of the defaults.
// Unknown keys are rejected. An empty file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// Resolve finds and loads the config. An explicit path wins, then
// $TREELOX_CONFIG, then ~/.treelox.yaml when it exists. Without any of
// them the defaults are returned.
func Resolve(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, defaultFileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := Default()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UseColor reports whether diagnostics should be colored.
// In auto mode this follows fatih/color's terminal and NO_COLOR detection.
func (c *Config) UseColor() bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return !color.NoColor
}

func (c *Config) normalize() error {
	switch c.Color {
	case "":
		c.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w %q, want one of auto, always, never", ErrInvalidColorMode, c.Color)
	}

	c.HistoryFile = ExpandHome(c.HistoryFile)
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
