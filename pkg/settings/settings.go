// Package settings provides build metadata, runtime configuration, and
// context helpers used across the streamview CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "streamview"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// InputSettings describes where records are read from.
type InputSettings struct {
	FromStdin bool
	Path      string
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration settings for a single execution of the application.
// ExitOnError stops the stream at the first record that cannot be displayed;
// when false the failure is logged and the stream continues.
type Run struct {
	MinLogLevel int8
	Input       InputSettings
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the default CLI run settings: info logging, input
// from stdin, color on, stop on the first failing record.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Input: InputSettings{
			FromStdin: true,
		},
		NoColor:     false,
		ExitOnError: true,
	}
}
