// Package enginetest provides a scripted in-memory pattern engine for tests.
//
// A Compiler hands out queries whose execution is driven by a Script: the
// script emits logs, calls builtins from the compiled table, or fails, which
// is enough to exercise every host-side path without a real pattern engine.
package enginetest

import (
	"sift/internal/diag"
	"sift/internal/engine"
)

// Script drives one fake execution.
type Script func(exec *Exec) error

// Compiler is a fake engine.Compiler. It records what it was asked to
// compile and returns a query wired to Script.
type Compiler struct {
	// Err, when set, is returned from Compile.
	Err error
	// QueryName becomes the compiled query's declared name ("" = anonymous).
	QueryName string
	// Script runs on every Execute. A nil script produces an empty result.
	Script Script

	LastSource   string
	LastPath     string
	LastLanguage engine.TargetLanguage
	LastBuiltins []engine.BuiltinFunction
}

func (c *Compiler) Compile(src, path string, lang engine.TargetLanguage, builtins []engine.BuiltinFunction) (engine.CompiledQuery, error) {
	c.LastSource = src
	c.LastPath = path
	c.LastLanguage = lang
	c.LastBuiltins = builtins

	if c.Err != nil {
		return nil, c.Err
	}

	table := make(map[string]engine.BuiltinFunction, len(builtins))
	for _, b := range builtins {
		table[b.Name] = b
	}
	return &Query{name: c.QueryName, builtins: table, script: c.Script}, nil
}

// Query is a fake engine.CompiledQuery.
type Query struct {
	name     string
	builtins map[string]engine.BuiltinFunction
	script   Script
}

func (q *Query) Name() string {
	return q.name
}

func (q *Query) Execute(file engine.TargetFile) (*engine.ExecutionResult, error) {
	exec := &Exec{
		query: q,
		File:  file,
		Logs:  &engine.LogBuffer{},
	}
	if q.script != nil {
		if err := q.script(exec); err != nil {
			return nil, err
		}
	}
	return &engine.ExecutionResult{
		Logs:        exec.Logs.Entries(),
		Diagnostics: exec.diagnostics,
	}, nil
}

// Exec implements engine.ExecContext for one scripted execution.
type Exec struct {
	query       *Query
	File        engine.TargetFile
	Logs        *engine.LogBuffer
	diagnostics []diag.Diagnostic
}

// CallBuiltin dispatches through the compiled builtin table, exactly like an
// engine invoking a host function mid-match.
func (e *Exec) CallBuiltin(name string, args ...engine.Pattern) (engine.Pattern, error) {
	fn, ok := e.query.builtins[name]
	if !ok {
		return nil, engine.PatternErrorf("unknown builtin %s()", name)
	}
	return fn.Handler(args, e, nil, e.Logs)
}

// ResolveArgs resolves present args. Patterns that already are Values pass
// through; strings become constants; anything else fails resolution.
func (e *Exec) ResolveArgs(args []engine.Pattern, state engine.QueryState, logs *engine.LogBuffer) ([]engine.Value, error) {
	out := make([]engine.Value, len(args))
	for i, a := range args {
		if a == nil {
			continue
		}
		switch arg := a.(type) {
		case engine.Value:
			out[i] = arg
		case string:
			out[i] = ConstantValue(arg)
		default:
			return nil, engine.PatternErrorf("cannot resolve argument %d (%T)", i, a)
		}
	}
	return out, nil
}

func (e *Exec) AddDiagnostic(d diag.Diagnostic) {
	e.diagnostics = append(e.diagnostics, d)
}

// Registered returns the diagnostics collected so far.
func (e *Exec) Registered() []diag.Diagnostic {
	return e.diagnostics
}

// Failf is a convenience for scripts that should abort execution.
func Failf(format string, args ...any) error {
	return engine.PatternErrorf(format, args...)
}

var _ engine.Compiler = (*Compiler)(nil)
var _ engine.CompiledQuery = (*Query)(nil)
var _ engine.ExecContext = (*Exec)(nil)
