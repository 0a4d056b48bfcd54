// Package version holds the scriptterm version string, overridden at
// build time via -ldflags.
package version

var Version = "0.3.0-dev"
