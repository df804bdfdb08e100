// Package diag defines the diagnostic model shared by the plugin host:
// severities, categories, the Diagnostic value itself and the Bag that
// collects diagnostics during one check run.
package diag
