// Package project locates and parses sift.toml, the per-project manifest
// naming the plugin rule files and check defaults.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the upward search looks for.
const ManifestName = "sift.toml"

// Manifest is a parsed sift.toml plus its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the TOML document.
type Config struct {
	Check   CheckConfig    `toml:"check"`
	Plugins []PluginConfig `toml:"plugin"`
}

// CheckConfig is the [check] section. Zero values fall back to the
// command-line defaults.
type CheckConfig struct {
	Language       string   `toml:"language"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
	Include        []string `toml:"include"`
}

// PluginConfig is one [[plugin]] entry.
type PluginConfig struct {
	Path string `toml:"path"`
}

// ErrNoPlugins indicates a manifest without any [[plugin]] entry.
var ErrNoPlugins = errors.New("no [[plugin]] entries")

// Find walks from startDir toward the filesystem root looking for sift.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest governing startDir.
// The boolean reports whether a manifest exists at all.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if len(cfg.Plugins) == 0 {
		return Config{}, fmt.Errorf("%s: %w", path, ErrNoPlugins)
	}
	for i, p := range cfg.Plugins {
		if strings.TrimSpace(p.Path) == "" {
			return Config{}, fmt.Errorf("%s: [[plugin]] entry %d: missing path", path, i+1)
		}
		if filepath.IsAbs(p.Path) {
			return Config{}, fmt.Errorf("%s: [[plugin]] entry %d: path must be relative", path, i+1)
		}
	}
	if meta.IsDefined("check", "max_diagnostics") && cfg.Check.MaxDiagnostics <= 0 {
		return Config{}, fmt.Errorf("%s: [check].max_diagnostics must be positive", path)
	}
	if meta.IsDefined("check", "jobs") && cfg.Check.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	return cfg, nil
}

// PluginPaths resolves every [[plugin]] path against the manifest root.
func (m *Manifest) PluginPaths() []string {
	paths := make([]string, len(m.Config.Plugins))
	for i, p := range m.Config.Plugins {
		paths[i] = filepath.Join(m.Root, filepath.FromSlash(p.Path))
	}
	return paths
}
