// Package engine defines the contracts between the plugin host and a pattern
// engine: compiling plugin source into an executable query, executing it
// against a parsed target file, and the builtin-function boundary through
// which plugin code calls back into the host.
//
// The pattern language itself (parsing, matching, traversal) lives behind
// these interfaces; the host never inspects engine internals.
package engine
