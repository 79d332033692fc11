// Package version reports the build stamped into the binary
package version

// BuildInfo identifies a running build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date,omitempty"`
}

// set with -ldflags "-X pushverify/internal/core/version.version=v1.2.0 -X ...commit=abcd"
var (
	version = "dev"
	commit  = "none"
	date    = ""
)

// Info returns the build of service
func Info(service string) BuildInfo {
	return BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
}
