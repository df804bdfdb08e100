package plugin

import (
	"fmt"

	"sift/internal/diag"
	"sift/internal/engine"
	"sift/internal/source"
)

// Evaluate runs the compiled query against one parsed file and returns the
// ordered diagnostic sequence.
//
// On success the sequence is every engine log (as a verbose diagnostic, in
// emission order) followed by every registered diagnostic (in registration
// order); nothing is reordered or deduplicated. On failure the sequence is
// exactly one error diagnostic and anything registered during the aborted run
// is discarded.
func (p *Plugin) Evaluate(file engine.TargetFile) []diag.Diagnostic {
	name := p.Name()

	result, err := p.query.Execute(file)
	if err != nil {
		return []diag.Diagnostic{
			diag.NewError(diag.CategoryPlugin, source.Span{}, fmt.Sprintf("%s errored: %s", name, err)),
		}
	}

	out := make([]diag.Diagnostic, 0, len(result.Logs)+len(result.Diagnostics))
	for _, entry := range result.Logs {
		out = append(out, diag.NewVerbose(
			diag.CategoryPlugin,
			entry.Range,
			fmt.Sprintf("%s logged: %s", name, entry.Message),
		))
	}
	out = append(out, result.Diagnostics...)
	return out
}
