// Package version carries the build metadata baked into the sift binary.
package version

import "github.com/fatih/color"

// Populated at build time via -ldflags; empty fields mean a local dev build.
var (
	// Version is the semantic version reported by `sift version`.
	Version = render(0, 1, 0, "dev")

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// render colors each version component separately so the parts stay readable
// in `sift version` output.
func render(major, minor, patch int, pre string) string {
	v := color.New(color.FgYellow, color.Bold).Sprint(major) + "." +
		color.New(color.FgGreen, color.Bold).Sprint(minor) + "." +
		color.New(color.FgBlue, color.Bold).Sprint(patch)
	if pre != "" {
		v += "-" + pre
	}
	return v
}
