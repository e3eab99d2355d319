// Package version provides information about the build version of the service.
package version

import "runtime/debug"

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version,omitempty"`
	// PromptPack is the schema version of the embedded worker catalog
	PromptPack int `json:"prompt_pack,omitempty"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'factlens/internal/core/version.version=v0.1.0'
	// -X 'factlens/internal/core/version.commit=abcd' -X 'factlens/internal/core/version.date=2026-10-01'"
	bi := BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	if info, ok := debug.ReadBuildInfo(); ok && info != nil {
		bi.GoVersion = info.GoVersion
	}
	return bi
}

var (
	service = "factlens"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
