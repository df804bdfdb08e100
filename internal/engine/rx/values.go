package rx

import (
	"fmt"

	"sift/internal/diag"
	"sift/internal/engine"
	"sift/internal/source"
)

// execContext carries the state of one Execute call.
type execContext struct {
	logs        *engine.LogBuffer
	diagnostics []diag.Diagnostic
}

func (e *execContext) ResolveArgs(args []engine.Pattern, state engine.QueryState, logs *engine.LogBuffer) ([]engine.Value, error) {
	st, ok := state.(*matchState)
	if !ok {
		return nil, engine.PatternErrorf("unexpected query state %T", state)
	}

	out := make([]engine.Value, len(args))
	for i, a := range args {
		if a == nil {
			continue
		}
		p, ok := a.(argPattern)
		if !ok {
			return nil, engine.PatternErrorf("cannot resolve argument %d (%T)", i, a)
		}
		out[i] = p.resolve(st)
	}
	return out, nil
}

func (e *execContext) AddDiagnostic(d diag.Diagnostic) {
	e.diagnostics = append(e.diagnostics, d)
}

// matchState is the binding state of one regex match.
type matchState struct {
	file *source.File
	// groups is the submatch index vector: groups[2n], groups[2n+1] bound
	// the n-th capture; -1 marks a group that did not participate.
	groups []int
}

func (s *matchState) matchSpan() source.Span {
	return source.NewSpan(s.file.ID, uint32(s.groups[0]), uint32(s.groups[1]))
}

func (s *matchState) group(n int) (start, end int, ok bool) {
	if 2*n+1 >= len(s.groups) {
		return 0, 0, false
	}
	start, end = s.groups[2*n], s.groups[2*n+1]
	if start < 0 || end < 0 {
		return 0, 0, false
	}
	return start, end, true
}

// argPattern is a compiled call/log argument. Patterns are static; all
// match-specific state comes in at resolve time.
type argPattern interface {
	resolve(st *matchState) engine.Value
}

// captureArg references capture group $n.
type captureArg int

func (c captureArg) resolve(st *matchState) engine.Value {
	return captureValue{st: st, group: int(c)}
}

// literalArg is a quoted string constant.
type literalArg string

func (l literalArg) resolve(st *matchState) engine.Value {
	return literalValue(l)
}

// concatArg is a `+`-joined template; it resolves to a snippet list.
type concatArg []argPattern

func (c concatArg) resolve(st *matchState) engine.Value {
	snippets := make([]engine.Snippet, len(c))
	for i, part := range c {
		snippets[i] = snippetFor(part, st)
	}
	return snippetsValue(snippets)
}

func snippetFor(p argPattern, st *matchState) engine.Snippet {
	switch part := p.(type) {
	case literalArg:
		return literalSnippet(part)
	case captureArg:
		return captureSnippet{st: st, group: int(part)}
	default:
		return brokenSnippet{reason: fmt.Sprintf("unsupported template part %T", p)}
	}
}

// captureValue resolves through the binding of one capture group.
type captureValue struct {
	st    *matchState
	group int
}

func (v captureValue) Constant() (string, bool)           { return "", false }
func (v captureValue) Snippets() ([]engine.Snippet, bool) { return nil, false }

func (v captureValue) LastBinding() engine.Binding {
	if _, _, ok := v.st.group(v.group); !ok {
		return nil
	}
	return captureBinding(v)
}

type captureBinding struct {
	st    *matchState
	group int
}

func (b captureBinding) Node() (engine.Node, bool) {
	return captureNode(b), true
}

func (b captureBinding) Text() (string, error) {
	start, end, ok := b.st.group(b.group)
	if !ok {
		return "", engine.PatternErrorf("capture $%d is unbound", b.group)
	}
	sp := trimSpan(b.st.file, start, end)
	return string(b.st.file.Content[sp.Start:sp.End]), nil
}

type captureNode struct {
	st    *matchState
	group int
}

// TrimmedRange is the capture's byte range with surrounding whitespace
// stripped.
func (n captureNode) TrimmedRange() source.Span {
	start, end, ok := n.st.group(n.group)
	if !ok {
		return source.Span{}
	}
	return trimSpan(n.st.file, start, end)
}

func trimSpan(f *source.File, start, end int) source.Span {
	content := f.Content
	for start < end && isTrivia(content[start]) {
		start++
	}
	for end > start && isTrivia(content[end-1]) {
		end--
	}
	return source.NewSpan(f.ID, uint32(start), uint32(end))
}

func isTrivia(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

type literalValue string

func (v literalValue) Constant() (string, bool)           { return string(v), true }
func (v literalValue) Snippets() ([]engine.Snippet, bool) { return nil, false }
func (v literalValue) LastBinding() engine.Binding        { return nil }

type snippetsValue []engine.Snippet

func (v snippetsValue) Constant() (string, bool)           { return "", false }
func (v snippetsValue) Snippets() ([]engine.Snippet, bool) { return v, true }
func (v snippetsValue) LastBinding() engine.Binding        { return nil }

type literalSnippet string

func (s literalSnippet) Text() (string, error) { return string(s), nil }

type captureSnippet struct {
	st    *matchState
	group int
}

func (s captureSnippet) Text() (string, error) {
	start, end, ok := s.st.group(s.group)
	if !ok {
		return "", engine.PatternErrorf("capture $%d is unbound", s.group)
	}
	return string(s.st.file.Content[start:end]), nil
}

type brokenSnippet struct {
	reason string
}

func (s brokenSnippet) Text() (string, error) {
	return "", engine.NewPatternError(s.reason)
}

// resolveText materializes an argument expression into plain text for log
// actions. Unlike diagnostic messages, unresolvable parts are hard errors.
func resolveText(p argPattern, st *matchState) (string, error) {
	v := p.resolve(st)

	if text, ok := v.Constant(); ok {
		return text, nil
	}
	if snippets, ok := v.Snippets(); ok {
		var out string
		for _, sn := range snippets {
			text, err := sn.Text()
			if err != nil {
				return "", err
			}
			out += text
		}
		return out, nil
	}
	if b := v.LastBinding(); b != nil {
		return b.Text()
	}
	return "", engine.PatternErrorf("expression has no textual value")
}
