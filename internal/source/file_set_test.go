package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSet_AddVirtualAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.txt", []byte("first line\nsecond line\n"))

	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Errorf("expected FileVirtual flag to be set")
	}

	start, end := fs.Resolve(Span{File: id, Start: 11, End: 17})
	if start.Line != 2 || start.Col != 1 {
		t.Errorf("start = %+v, want line 2 col 1", start)
	}
	if end.Line != 2 || end.Col != 7 {
		t.Errorf("end = %+v, want line 2 col 7", end)
	}
}

func TestFileSet_LoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	content := []byte{0xEF, 0xBB, 0xBF}
	content = append(content, []byte("a\r\nb\r\n")...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Errorf("content = %q, want %q", f.Content, "a\nb\n")
	}
	if f.Flags&FileHadBOM == 0 {
		t.Errorf("expected FileHadBOM flag")
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("expected FileNormalizedCRLF flag")
	}
}

func TestFileSet_LoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFile_GetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.txt", []byte("alpha\nbeta\ngamma"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "alpha"},
		{2, "beta"},
		{3, "gamma"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestFileSet_GetByPath(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("dir/x.txt", []byte("x"))

	if _, ok := fs.GetByPath("dir/x.txt"); !ok {
		t.Errorf("expected to find dir/x.txt")
	}
	if _, ok := fs.GetByPath("dir/y.txt"); ok {
		t.Errorf("did not expect to find dir/y.txt")
	}
}
