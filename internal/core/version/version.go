// Package version provides build information for the satd binaries
package version

// BuildInfo holds version information about a build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for the named service. The version, commit and
// date variables are set at link time:
//
//	-ldflags "-X 'satd/internal/core/version.version=v0.1.0' -X 'satd/internal/core/version.commit=abcd'"
func Info(service string) BuildInfo {
	if service == "" {
		service = "satd"
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
