package engine

import (
	"sift/internal/diag"
	"sift/internal/source"
)

// TargetLanguage selects the grammar a query is compiled against. It is an
// externally supplied configuration value; the host never picks one on its
// own.
type TargetLanguage string

const (
	// LangText matches plugins against raw file text.
	LangText TargetLanguage = "text"
)

// TargetFile pairs a parsed representation with its originating path. The
// host constructs one per evaluation; the engine owns the interpretation of
// Parse.
type TargetFile struct {
	Parse any
	Path  string
}

// Log is one informational entry emitted during query execution.
// A zero Range means the log carries no byte range.
type Log struct {
	Range   source.Span
	Message string
}

// LogBuffer accumulates logs during one execution.
type LogBuffer struct {
	entries []Log
}

// Add appends a log entry.
func (b *LogBuffer) Add(l Log) {
	b.entries = append(b.entries, l)
}

// Entries returns the accumulated logs in emission order.
func (b *LogBuffer) Entries() []Log {
	if b == nil {
		return nil
	}
	return b.entries
}

// ExecutionResult is produced exactly once per successful execute call.
type ExecutionResult struct {
	// Logs in engine emission order.
	Logs []Log
	// Diagnostics registered through builtins, in registration order.
	Diagnostics []diag.Diagnostic
}

// CompiledQuery is an immutable, executable form of a plugin. Implementations
// must be safe for concurrent Execute calls on distinct files; all per-run
// state is confined to a single Execute invocation.
type CompiledQuery interface {
	// Name returns the display name declared by the plugin source, or ""
	// when it declares none.
	Name() string
	// Execute runs the query against one parsed file, synchronously.
	// It returns either a result or an error, never both.
	Execute(file TargetFile) (*ExecutionResult, error)
}

// Compiler turns plugin source text into a CompiledQuery. The path is used
// for error messages only. The builtin table is fixed at compile time.
type Compiler interface {
	Compile(src, path string, lang TargetLanguage, builtins []BuiltinFunction) (CompiledQuery, error)
}
