package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

const fullManifest = `
[check]
language = "text"
max_diagnostics = 50
jobs = 4
include = [".txt", ".md"]

[[plugin]]
path = "rules/no-todo.rx"

[[plugin]]
path = "rules/no-fixme.rx"
`

func TestLoadConfigFull(t *testing.T) {
	path := writeManifest(t, t.TempDir(), fullManifest)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Check.Language != "text" {
		t.Errorf("language = %q", cfg.Check.Language)
	}
	if cfg.Check.MaxDiagnostics != 50 {
		t.Errorf("max_diagnostics = %d", cfg.Check.MaxDiagnostics)
	}
	if cfg.Check.Jobs != 4 {
		t.Errorf("jobs = %d", cfg.Check.Jobs)
	}
	if len(cfg.Check.Include) != 2 || cfg.Check.Include[0] != ".txt" {
		t.Errorf("include = %v", cfg.Check.Include)
	}
	if len(cfg.Plugins) != 2 {
		t.Fatalf("plugins = %v", cfg.Plugins)
	}
	if cfg.Plugins[0].Path != "rules/no-todo.rx" {
		t.Errorf("first plugin = %q", cfg.Plugins[0].Path)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{"no plugins", "[check]\njobs = 1\n", "no [[plugin]] entries"},
		{"empty path", "[[plugin]]\npath = \"\"\n", "missing path"},
		{"absolute path", "[[plugin]]\npath = \"/etc/rule.rx\"\n", "must be relative"},
		{"bad max", "[check]\nmax_diagnostics = 0\n[[plugin]]\npath = \"a.rx\"\n", "must be positive"},
		{"negative jobs", "[check]\njobs = -1\n[[plugin]]\npath = \"a.rx\"\n", "must not be negative"},
		{"bad toml", "[[plugin\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %v, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadConfigNoPluginsSentinel(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[check]\n")
	_, err := LoadConfig(path)
	if !errors.Is(err, ErrNoPlugins) {
		t.Errorf("error = %v, want ErrNoPlugins", err)
	}
}

func TestFindWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, fullManifest)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found from nested dir")
	}
	if filepath.Dir(path) != root {
		t.Errorf("found %q, want manifest in %q", path, root)
	}
}

func TestFindAbsent(t *testing.T) {
	_, ok, err := Find(t.TempDir())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if ok {
		t.Error("found a manifest in an empty tree")
	}
}

func TestPluginPathsResolveAgainstRoot(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, fullManifest)

	m, ok, err := Load(root)
	if err != nil || !ok {
		t.Fatalf("Load = (%v, %v)", ok, err)
	}
	paths := m.PluginPaths()
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	want := filepath.Join(root, "rules", "no-todo.rx")
	if paths[0] != want {
		t.Errorf("paths[0] = %q, want %q", paths[0], want)
	}
}
