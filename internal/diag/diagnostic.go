package diag

import (
	"sift/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is the unit returned to the host. A zero Primary span means the
// diagnostic has no position.
type Diagnostic struct {
	Severity Severity
	Category Category
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// HasPosition reports whether the diagnostic points at a byte range.
func (d Diagnostic) HasPosition() bool {
	return d.Primary != (source.Span{})
}
