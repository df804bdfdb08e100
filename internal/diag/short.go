package diag

import (
	"fmt"
	"sort"
	"strings"

	"sift/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Category string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable single-line-per-entry
// representation suitable for CLI short output and golden files. Entries are
// sorted deterministically and returned as one string (empty when nothing to
// show).
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for _, d := range diags {
		rendered = appendShortDiagnostic(rendered, d, fs, includeNotes)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		return di.Message < dj.Message
	})

	var sb strings.Builder
	for i, r := range rendered {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if r.Path == "" {
			fmt.Fprintf(&sb, "%s %s: %s", r.Severity, r.Category, r.Message)
			continue
		}
		fmt.Fprintf(&sb, "%s:%d:%d: %s %s: %s", r.Path, r.Line, r.Column, r.Severity, r.Category, r.Message)
	}
	return sb.String()
}

func appendShortDiagnostic(out []shortDiagnostic, d Diagnostic, fs *source.FileSet, includeNotes bool) []shortDiagnostic {
	entry := shortDiagnostic{
		Severity: d.Severity.String(),
		Category: d.Category.String(),
		Message:  d.Message,
	}
	if d.HasPosition() {
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		entry.Path = f.FormatPath("relative", fs.BaseDir())
		entry.Line = start.Line
		entry.Column = start.Col
	}
	out = append(out, entry)

	if includeNotes {
		for _, n := range d.Notes {
			note := shortDiagnostic{
				Severity: "NOTE",
				Category: d.Category.String(),
				Message:  n.Msg,
			}
			if n.Span != (source.Span{}) {
				f := fs.Get(n.Span.File)
				start, _ := fs.Resolve(n.Span)
				note.Path = f.FormatPath("relative", fs.BaseDir())
				note.Line = start.Line
				note.Column = start.Col
			}
			out = append(out, note)
		}
	}
	return out
}
