// Package version reports the build stamped into the binary
package version

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Service is the default service name reported by meta endpoints
const Service = "xfriends-api"

// Info returns the build information
// set at link time: -ldflags "-X xfriends/internal/core/version.version=v0.1.0 -X ...commit=abcd -X ...date=2025-10-01"
func Info() BuildInfo {
	return BuildInfo{
		Service: Service,
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
