package plugin

import (
	"sift/internal/engine"
)

// anonymousName is the display name of plugins whose source declares none.
const anonymousName = "anonymous"

// Plugin is an immutable handle to a compiled query. It never mutates after
// load, so one Plugin is safely shared by concurrent evaluations of distinct
// files.
type Plugin struct {
	query engine.CompiledQuery
}

// Name returns the plugin's display name, or "anonymous" when the compiled
// query declares none.
func (p *Plugin) Name() string {
	if n := p.query.Name(); n != "" {
		return n
	}
	return anonymousName
}
