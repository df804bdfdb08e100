package engine

import (
	"sift/internal/diag"
)

// Pattern is an opaque handle to an argument pattern as the engine sees it.
// Builtin handlers receive patterns unresolved and hand them back to the
// engine for resolution; they never inspect one directly.
type Pattern = any

// QueryState is the engine's per-execution binding state, opaque to the host.
type QueryState = any

// BuiltinHandler is invoked by the engine when plugin code calls a builtin.
// args has one slot per formal parameter; absent arguments are nil. The
// returned pattern flows back into pattern composition on the engine side.
type BuiltinHandler func(args []Pattern, ctx ExecContext, state QueryState, logs *LogBuffer) (Pattern, error)

// BuiltinFunction binds a name callable from plugin source to a host handler.
// Entries are looked up by name in a table fixed at compile time.
type BuiltinFunction struct {
	Name    string
	Params  []string
	Handler BuiltinHandler
}

// NewBuiltinFunction builds a builtin table entry.
func NewBuiltinFunction(name string, params []string, handler BuiltinHandler) BuiltinFunction {
	return BuiltinFunction{Name: name, Params: params, Handler: handler}
}

// ExecContext is the engine-side execution state a builtin handler can reach.
type ExecContext interface {
	// ResolveArgs resolves each present (non-nil) argument pattern against
	// the current binding state. Absent slots stay nil in the result. The
	// returned slice always has len(args) entries.
	ResolveArgs(args []Pattern, state QueryState, logs *LogBuffer) ([]Value, error)
	// AddDiagnostic appends a diagnostic to the current evaluation's
	// collection.
	AddDiagnostic(d diag.Diagnostic)
}
