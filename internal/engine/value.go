package engine

import (
	"sift/internal/source"
)

// Value is a resolved argument pattern. Exactly one of the shapes below
// applies; the others report absence.
type Value interface {
	// Constant returns the string form of a literal constant value.
	Constant() (string, bool)
	// Snippets returns the source-text snippets of a template value.
	Snippets() ([]Snippet, bool)
	// LastBinding returns the value's most recent binding, or nil when the
	// value is unbound.
	LastBinding() Binding
}

// Snippet is a resolved fragment of source text. Text may fail when the
// fragment cannot be materialized from the current files.
type Snippet interface {
	Text() (string, error)
}

// Binding associates a pattern variable with a concrete value or node.
type Binding interface {
	// Node returns the AST node behind the binding, when there is one.
	Node() (Node, bool)
	// Text returns the textual content of the binding.
	Text() (string, error)
}

// Node is the minimal view of an AST node the host needs.
type Node interface {
	// TrimmedRange is the node's byte span excluding surrounding
	// insignificant trivia.
	TrimmedRange() source.Span
}
