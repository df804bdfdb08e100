package plugin

import (
	"fmt"
	"os"

	"sift/internal/engine"
)

// FS is the filesystem collaborator for loading plugin source text.
type FS interface {
	ReadFileFromPath(path string) ([]byte, error)
}

// OSFS reads plugin sources from the local disk.
type OSFS struct{}

func (OSFS) ReadFileFromPath(path string) ([]byte, error) {
	// #nosec G304 -- path is provided by the caller
	return os.ReadFile(path)
}

// registerDiagnosticParams are the formal parameter names of the one builtin
// exposed to plugin code.
var registerDiagnosticParams = []string{
	"span",
	"message",
	"fixer_description",
	"category",
	"applicability",
}

// Load reads plugin source from path and compiles it for the given target
// language. The builtin table handed to the compiler contains exactly one
// entry, register_diagnostic. Unreadable sources surface as I/O errors,
// malformed ones as the compiler's error.
func Load(fsys FS, compiler engine.Compiler, path string, lang engine.TargetLanguage) (*Plugin, error) {
	src, err := fsys.ReadFileFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("read plugin %s: %w", path, err)
	}

	query, err := compiler.Compile(string(src), path, lang, []engine.BuiltinFunction{
		engine.NewBuiltinFunction("register_diagnostic", registerDiagnosticParams, registerDiagnostic),
	})
	if err != nil {
		return nil, err
	}

	return &Plugin{query: query}, nil
}
