package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevVerbose marks informational diagnostics that are hidden by default,
	// such as plugin log output.
	SevVerbose Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevVerbose:
		return "VERBOSE"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
