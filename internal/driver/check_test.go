package driver

import (
	"context"
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

func loadTodoSet(t *testing.T) *PluginSet {
	t.Helper()
	dir := t.TempDir()
	path := writeRule(t, dir, "no-todo.rx", todoRule)
	set, err := LoadPlugins(plugin.OSFS{}, rx.New(), []string{path}, engine.LangText)
	if err != nil {
		t.Fatalf("LoadPlugins: %v", err)
	}
	return set
}

func writeTarget(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}
	return path
}

func TestCheckFileProducesDiagnostics(t *testing.T) {
	set := loadTodoSet(t)
	dir := t.TempDir()
	path := writeTarget(t, dir, "a.txt", "x := 1\n// TODO fix this\n")

	fset := source.NewFileSetWithBase(dir)
	result := CheckFile(fset, rx.New(), set, path, Options{})

	if result.FromCache {
		t.Error("uncached run reported FromCache")
	}
	items := result.Bag.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(items), items)
	}
	d := items[0]
	if d.Severity != diag.SevWarning {
		t.Errorf("severity = %v, want %v", d.Severity, diag.SevWarning)
	}
	if d.Message != "unresolved TODO" {
		t.Errorf("message = %q, want %q", d.Message, "unresolved TODO")
	}
	if !d.HasPosition() {
		t.Error("registered diagnostic lost its position")
	}

	f := fset.Get(result.FileID)
	if got := string(f.Content[d.Primary.Start:d.Primary.End]); got != "TODO fix this" {
		t.Errorf("span text = %q, want %q", got, "TODO fix this")
	}
}

func TestCheckFileMissingTarget(t *testing.T) {
	set := loadTodoSet(t)
	fset := source.NewFileSet()

	result := CheckFile(fset, rx.New(), set, filepath.Join(t.TempDir(), "nope.txt"), Options{})

	items := result.Bag.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(items))
	}
	if items[0].Category != diag.CategoryIO {
		t.Errorf("category = %q, want %q", items[0].Category, diag.CategoryIO)
	}
	if items[0].Severity != diag.SevError {
		t.Errorf("severity = %v, want %v", items[0].Severity, diag.SevError)
	}
	if items[0].HasPosition() {
		t.Error("load failure diagnostic carries a position")
	}
}

func TestCheckFileRespectsMaxDiagnostics(t *testing.T) {
	set := loadTodoSet(t)
	dir := t.TempDir()
	path := writeTarget(t, dir, "a.txt", "TODO one\nTODO two\nTODO three\n")

	fset := source.NewFileSetWithBase(dir)
	result := CheckFile(fset, rx.New(), set, path, Options{MaxDiagnostics: 2})

	if got := result.Bag.Len(); got != 2 {
		t.Errorf("got %d diagnostics, want 2 (limit)", got)
	}
}

func TestListTargetFilesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeTarget(t, dir, "b.txt", "")
	writeTarget(t, dir, "a.txt", "")
	writeTarget(t, dir, "skip.md", "")
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTarget(t, sub, "c.txt", "")

	files, err := ListTargetFiles(dir, []string{".txt"})
	if err != nil {
		t.Fatalf("ListTargetFiles: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(sub, "c.txt"),
	}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d: %v", len(files), len(want), files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestCheckDir(t *testing.T) {
	set := loadTodoSet(t)
	dir := t.TempDir()
	writeTarget(t, dir, "clean.txt", "nothing here\n")
	writeTarget(t, dir, "dirty.txt", "// TODO later\n")

	_, results, err := CheckDir(context.Background(), dir, rx.New(), set, Options{Extensions: []string{".txt"}, Jobs: 2})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	// Results follow sorted file order.
	if !strings.HasSuffix(results[0].Path, "clean.txt") {
		t.Errorf("results[0].Path = %q, want clean.txt", results[0].Path)
	}
	if results[0].Bag.Len() != 0 {
		t.Errorf("clean file produced %d diagnostics", results[0].Bag.Len())
	}
	if results[1].Bag.Len() != 1 {
		t.Errorf("dirty file produced %d diagnostics, want 1", results[1].Bag.Len())
	}
}

func TestCheckDirEmits(t *testing.T) {
	set := loadTodoSet(t)
	dir := t.TempDir()
	writeTarget(t, dir, "a.txt", "// TODO\n")

	events := make(chan Event, 16)
	_, _, err := CheckDir(context.Background(), dir, rx.New(), set, Options{Events: events})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	close(events)

	var stages []Stage
	for ev := range events {
		stages = append(stages, ev.Stage)
	}
	if len(stages) != 2 || stages[0] != StageQueued || stages[1] != StageDone {
		t.Errorf("stages = %v, want [queued done]", stages)
	}
}

func TestCheckDirEmpty(t *testing.T) {
	set := loadTodoSet(t)
	fset, results, err := CheckDir(context.Background(), t.TempDir(), rx.New(), set, Options{})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if fset.Len() != 0 {
		t.Errorf("fileset has %d files, want 0", fset.Len())
	}
}
