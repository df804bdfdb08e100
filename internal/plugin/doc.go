// Package plugin bridges pattern-based lint rules to the diagnostic pipeline.
//
// A plugin is loaded from external source text, compiled once through a
// pattern engine, and evaluated per target file. Plugin code reports findings
// through the single host builtin register_diagnostic; the evaluator merges
// engine logs and registered diagnostics into one ordered sequence.
package plugin
