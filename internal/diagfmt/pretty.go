package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"sift/internal/diag"
	"sift/internal/source"
)

// Pretty formats diagnostics for humans.
// It walks bag.Items() (callers are expected to bag.Sort() first).
// Every diagnostic prints as
// <path>:<line>:<col>: <SEV> <category>: <Message>
// followed by the source line with a ^~~~ underline over the span, then
// Notes in the same shape. Color is opt-in.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		if d.Severity == diag.SevVerbose && !opts.ShowVerbose {
			continue
		}
		prettyOne(w, d, fs, opts)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := severityLabel(d.Severity, opts.Color)

	if !d.HasPosition() {
		fmt.Fprintf(w, "%s %s: %s\n", sev, d.Category, d.Message)
		return
	}

	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := formatPath(f, opts.PathMode, fs.BaseDir())

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sev, d.Category, d.Message)
	writeSnippet(w, f, d.Primary, start, end, opts)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			if note.Span == (source.Span{}) {
				fmt.Fprintf(w, "  note: %s\n", note.Msg)
				continue
			}
			nf := fs.Get(note.Span.File)
			nStart, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n",
				formatPath(nf, opts.PathMode, fs.BaseDir()), nStart.Line, nStart.Col, note.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  fix: %s\n", fix.Title)
		}
	}
}

// writeSnippet prints up to Context lines of leading context, the primary
// line, and a caret underline aligned under the span.
func writeSnippet(w io.Writer, f *source.File, span source.Span, start, end source.LineCol, opts PrettyOpts) {
	if opts.Context > 0 {
		first := int64(start.Line) - int64(opts.Context)
		if first < 1 {
			first = 1
		}
		for ln := uint32(first); ln < start.Line; ln++ {
			if text := f.GetLine(ln); text != "" {
				fmt.Fprintf(w, "  %s\n", clip(text, opts.Width))
			}
		}
	}

	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", clip(line, opts.Width))

	// Underline covers the span on its first line only; multi-line spans run
	// to the end of that line.
	prefix := line[:min(int(start.Col-1), len(line))]
	markLen := span.Len()
	if end.Line != start.Line {
		markLen = uint32(len(line)) - (start.Col - 1)
	}
	if markLen == 0 {
		markLen = 1
	}
	marked := line[min(int(start.Col-1), len(line)):]
	if int(markLen) < len(marked) {
		marked = marked[:markLen]
	}

	pad := strings.Repeat(" ", displayWidth(prefix))
	underline := "^"
	if width := displayWidth(marked); width > 1 {
		underline += strings.Repeat("~", width-1)
	}
	if opts.Color {
		underline = color.New(color.FgGreen, color.Bold).Sprint(underline)
	}
	fmt.Fprintf(w, "  %s%s\n", pad, underline)
}

// displayWidth measures the rendered width of a string, normalizing first so
// combining sequences count once.
func displayWidth(s string) int {
	return runewidth.StringWidth(norm.NFC.String(s))
}

func clip(s string, width uint16) string {
	if width == 0 {
		return s
	}
	return runewidth.Truncate(norm.NFC.String(s), int(width), "...")
}

func severityLabel(sev diag.Severity, colored bool) string {
	label := sev.String()
	if !colored {
		return label
	}
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(label)
	case diag.SevInfo:
		return color.New(color.FgCyan).Sprint(label)
	case diag.SevVerbose:
		return color.New(color.Faint).Sprint(label)
	}
	return label
}

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", baseDir)
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	}
	return f.Path
}
