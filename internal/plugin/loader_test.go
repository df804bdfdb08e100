package plugin

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"sift/internal/engine"
	"sift/internal/engine/enginetest"
)

type mapFS map[string][]byte

func (m mapFS) ReadFileFromPath(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return content, nil
}

func loadPlugin(t *testing.T, compiler *enginetest.Compiler) *Plugin {
	t.Helper()
	fsys := mapFS{"rules/test.pat": []byte("some pattern source")}
	p, err := Load(fsys, compiler, "rules/test.pat", engine.LangText)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return p
}

func TestLoad_PassesSourceAndLanguageToCompiler(t *testing.T) {
	compiler := &enginetest.Compiler{}
	loadPlugin(t, compiler)

	if compiler.LastSource != "some pattern source" {
		t.Errorf("compiled source = %q", compiler.LastSource)
	}
	if compiler.LastPath != "rules/test.pat" {
		t.Errorf("compiled path = %q", compiler.LastPath)
	}
	if compiler.LastLanguage != engine.LangText {
		t.Errorf("compiled language = %q", compiler.LastLanguage)
	}
}

func TestLoad_BuiltinTableHasExactlyRegisterDiagnostic(t *testing.T) {
	compiler := &enginetest.Compiler{}
	loadPlugin(t, compiler)

	if len(compiler.LastBuiltins) != 1 {
		t.Fatalf("builtin table has %d entries, want 1", len(compiler.LastBuiltins))
	}
	b := compiler.LastBuiltins[0]
	if b.Name != "register_diagnostic" {
		t.Errorf("builtin name = %q", b.Name)
	}
	wantParams := []string{"span", "message", "fixer_description", "category", "applicability"}
	if len(b.Params) != len(wantParams) {
		t.Fatalf("builtin params = %v", b.Params)
	}
	for i, p := range wantParams {
		if b.Params[i] != p {
			t.Errorf("param[%d] = %q, want %q", i, b.Params[i], p)
		}
	}
	if b.Handler == nil {
		t.Error("builtin handler is nil")
	}
}

func TestLoad_UnreadableSourceIsIOError(t *testing.T) {
	compiler := &enginetest.Compiler{}
	_, err := Load(mapFS{}, compiler, "rules/missing.pat", engine.LangText)
	if err == nil {
		t.Fatal("expected error for unreadable plugin source")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error does not wrap fs.ErrNotExist: %v", err)
	}
}

func TestLoad_CompileErrorSurfacesDetail(t *testing.T) {
	compileErr := &engine.CompileError{Path: "rules/bad.pat", Detail: "unexpected token"}
	compiler := &enginetest.Compiler{Err: compileErr}
	_, err := Load(mapFS{"rules/bad.pat": []byte("???")}, compiler, "rules/bad.pat", engine.LangText)
	if err == nil {
		t.Fatal("expected compile error")
	}
	var ce *engine.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("error is not a CompileError: %v", err)
	}
	if !strings.Contains(ce.Error(), "unexpected token") {
		t.Errorf("compile error lost detail: %v", ce)
	}
}

func TestName_DefaultsToAnonymous(t *testing.T) {
	p := loadPlugin(t, &enginetest.Compiler{})
	if p.Name() != "anonymous" {
		t.Errorf("Name() = %q, want %q", p.Name(), "anonymous")
	}
}

func TestName_UsesQueryMetadata(t *testing.T) {
	p := loadPlugin(t, &enginetest.Compiler{QueryName: "no-foo"})
	if p.Name() != "no-foo" {
		t.Errorf("Name() = %q, want %q", p.Name(), "no-foo")
	}
}
