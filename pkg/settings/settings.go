// Package settings provides build metadata and per-run configuration shared
// across the vsr CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "vsr"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-dev",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration for a single execution of the viewer: logging
// verbosity, color handling, and how the session terminates on error.
type Run struct {
	MinLogLevel int8
	IsQuiet     bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns Run defaults for command-line invocations.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		IsQuiet:     false,
		NoColor:     false,
		ExitOnError: true,
	}
}
