package diag

import "sift/internal/source"

func New(sev Severity, cat Category, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Category: cat,
		Primary:  primary,
		Message:  msg,
		Notes:    nil,
		Fixes:    nil,
	}
}

func NewError(cat Category, primary source.Span, msg string) Diagnostic {
	return New(SevError, cat, primary, msg)
}

func NewVerbose(cat Category, primary source.Span, msg string) Diagnostic {
	return New(SevVerbose, cat, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}
