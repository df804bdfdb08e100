package diag

// Category tags a diagnostic with its origin.
type Category string

const (
	// CategoryPlugin marks every diagnostic produced by plugin evaluation,
	// both log-derived entries and explicitly registered ones.
	CategoryPlugin Category = "plugin"
	// CategoryIO marks diagnostics synthesized for unreadable target files.
	CategoryIO Category = "io"
	// CategoryParse marks diagnostics synthesized when a target file cannot
	// be turned into the engine's parse representation.
	CategoryParse Category = "parse"
)

func (c Category) String() string {
	if c == "" {
		return "unknown"
	}
	return string(c)
}
