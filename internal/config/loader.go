package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the standard location for the user's config
// file, resolved via xdg so it honors XDG_CONFIG_HOME like the rest of the
// desktop stack.
func DefaultConfigPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("foliage", "config.yaml"))
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// Load reads and merges the config file at the standard location. A
// missing file is not an error: Load returns Defaults() unchanged.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and merges the config file at path on top of
// Defaults(). A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Defaults()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	merge(cfg, &file)
	return cfg, nil
}

// merge overlays file's explicitly-set sections onto base in place. A
// section is considered "set" if the file populated it at all; config.yaml
// is meant to be edited piecemeal, so a user who only writes a `gaps:`
// block should not lose the default workspace list. Booleans cannot tell
// "unset" from false: gaps.scaleWithDpi from the file can only turn the
// default on, never off, and the focus section is always taken from the
// file.
func merge(base, file *Config) {
	if len(file.Workspaces) > 0 {
		base.Workspaces = file.Workspaces
	}
	if file.Gaps.Inner != "" {
		base.Gaps.Inner = file.Gaps.Inner
	}
	if file.Gaps.Outer != "" {
		base.Gaps.Outer = file.Gaps.Outer
	}
	base.Gaps.ScaleWithDPI = file.Gaps.ScaleWithDPI || base.Gaps.ScaleWithDPI
	if len(file.WindowRules) > 0 {
		base.WindowRules = file.WindowRules
	}
	base.Focus = file.Focus
	if len(file.Bindings) > 0 {
		base.Bindings = file.Bindings
	}
}
