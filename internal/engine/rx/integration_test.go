package rx_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sift/internal/diag"
	"sift/internal/engine"
	"sift/internal/engine/rx"
	"sift/internal/plugin"
	"sift/internal/source"
)

// End-to-end: rule file on disk, loaded through the plugin loader, evaluated
// against a parsed target with the real register_diagnostic builtin.
func TestRxPluginEndToEnd(t *testing.T) {
	dir := t.TempDir()
	rulePath := filepath.Join(dir, "no-todo.rx")
	rule := strings.Join([]string{
		"# flag leftover TODO markers",
		"name no-todo",
		"match (TODO[^\\n]*)",
		"log \"marker: \" + $1",
		"call register_diagnostic($1, \"unresolved TODO\")",
		"",
	}, "\n")
	if err := os.WriteFile(rulePath, []byte(rule), 0o644); err != nil {
		t.Fatal(err)
	}

	eng := rx.New()
	p, err := plugin.Load(plugin.OSFS{}, eng, rulePath, engine.LangText)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Name() != "no-todo" {
		t.Errorf("Name() = %q, want no-todo", p.Name())
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual("main.go", []byte("x := 1\n// TODO fix this\ny := 2\n"))
	parse, err := eng.Parse(fs.Get(id))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	diags := p.Evaluate(engine.TargetFile{Parse: parse, Path: "main.go"})
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want log + registered", len(diags))
	}

	logDiag := diags[0]
	if logDiag.Severity != diag.SevVerbose {
		t.Errorf("log severity = %v, want verbose", logDiag.Severity)
	}
	if logDiag.Message != "no-todo logged: marker: TODO fix this" {
		t.Errorf("log message = %q", logDiag.Message)
	}

	reg := diags[1]
	if reg.Category != diag.CategoryPlugin {
		t.Errorf("category = %q, want plugin", reg.Category)
	}
	if reg.Message != "unresolved TODO" {
		t.Errorf("message = %q", reg.Message)
	}
	f := fs.Get(id)
	got := string(f.Content[reg.Primary.Start:reg.Primary.End])
	if got != "TODO fix this" {
		t.Errorf("diagnostic points at %q", got)
	}
}

// A plugin misusing the builtin fails the whole evaluation with the arity
// error, surfaced as a single error diagnostic.
func TestRxPluginArityFailure(t *testing.T) {
	dir := t.TempDir()
	rulePath := filepath.Join(dir, "broken.rx")
	rule := "name broken\nmatch foo\ncall register_diagnostic($0)\n"
	if err := os.WriteFile(rulePath, []byte(rule), 0o644); err != nil {
		t.Fatal(err)
	}

	eng := rx.New()
	p, err := plugin.Load(plugin.OSFS{}, eng, rulePath, engine.LangText)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual("input.txt", []byte("foo"))
	parse, _ := eng.Parse(fs.Get(id))

	diags := p.Evaluate(engine.TargetFile{Parse: parse, Path: "input.txt"})
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if d.Severity != diag.SevError {
		t.Errorf("severity = %v, want error", d.Severity)
	}
	if !strings.Contains(d.Message, "broken errored:") {
		t.Errorf("message = %q", d.Message)
	}
	if !strings.Contains(d.Message, "takes 2 or 5 arguments") {
		t.Errorf("message lost the arity detail: %q", d.Message)
	}
}
