package enginetest

import (
	"errors"

	"sift/internal/engine"
	"sift/internal/source"
)

// ConstantValue resolves as a literal constant.
type ConstantValue string

func (v ConstantValue) Constant() (string, bool)           { return string(v), true }
func (v ConstantValue) Snippets() ([]engine.Snippet, bool) { return nil, false }
func (v ConstantValue) LastBinding() engine.Binding        { return nil }

// SnippetsValue resolves as an ordered list of source-text snippets.
type SnippetsValue []engine.Snippet

func (v SnippetsValue) Constant() (string, bool)           { return "", false }
func (v SnippetsValue) Snippets() ([]engine.Snippet, bool) { return v, true }
func (v SnippetsValue) LastBinding() engine.Binding        { return nil }

// Snippet is a snippet whose text always resolves.
type Snippet string

func (s Snippet) Text() (string, error) { return string(s), nil }

// BrokenSnippet is a snippet whose text never resolves.
type BrokenSnippet string

func (s BrokenSnippet) Text() (string, error) {
	return "", errors.New("snippet text unavailable: " + string(s))
}

// BoundValue resolves through its last binding only.
type BoundValue struct {
	Binding engine.Binding
}

func (v BoundValue) Constant() (string, bool)           { return "", false }
func (v BoundValue) Snippets() ([]engine.Snippet, bool) { return nil, false }
func (v BoundValue) LastBinding() engine.Binding        { return v.Binding }

// NoneValue resolves to nothing at any tier.
type NoneValue struct{}

func (NoneValue) Constant() (string, bool)           { return "", false }
func (NoneValue) Snippets() ([]engine.Snippet, bool) { return nil, false }
func (NoneValue) LastBinding() engine.Binding        { return nil }

// NodeBinding binds to an AST node with a trimmed byte range.
type NodeBinding struct {
	Span   source.Span
	Txt    string
	TxtErr error
}

func (b NodeBinding) Node() (engine.Node, bool) { return fakeNode{span: b.Span}, true }

func (b NodeBinding) Text() (string, error) {
	if b.TxtErr != nil {
		return "", b.TxtErr
	}
	return b.Txt, nil
}

// TextBinding carries text but no node.
type TextBinding struct {
	Txt    string
	TxtErr error
}

func (b TextBinding) Node() (engine.Node, bool) { return nil, false }

func (b TextBinding) Text() (string, error) {
	if b.TxtErr != nil {
		return "", b.TxtErr
	}
	return b.Txt, nil
}

type fakeNode struct {
	span source.Span
}

func (n fakeNode) TrimmedRange() source.Span { return n.span }

// NodeSpan builds a BoundValue whose binding is a node over [start, end).
func NodeSpan(file source.FileID, start, end uint32) BoundValue {
	return BoundValue{Binding: NodeBinding{Span: source.NewSpan(file, start, end)}}
}

var (
	_ engine.Value   = ConstantValue("")
	_ engine.Value   = SnippetsValue(nil)
	_ engine.Value   = BoundValue{}
	_ engine.Value   = NoneValue{}
	_ engine.Snippet = Snippet("")
	_ engine.Snippet = BrokenSnippet("")
	_ engine.Binding = NodeBinding{}
	_ engine.Binding = TextBinding{}
)
