// Package driver orchestrates check runs: loading plugin sets, walking
// target trees, evaluating every plugin against every file (in parallel for
// directories), and caching per-file results on disk.
package driver
