package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"xfriends/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo tags the connection so system.query_log shows which binary wrote a match event
// role is "api" or "cli"
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	bi := version.Info()
	if tag == "" {
		tag = bi.Version
	}
	host, _ := os.Hostname()
	return clickhouse.ClientInfo{Products: []struct{ Name, Version string }{
		{Name: "xfriends", Version: orUnknown(tag)},
		{Name: "role", Version: orUnknown(role)},
		{Name: "go", Version: runtime.Version()},
		{Name: "commit", Version: commit(bi.Commit)},
		{Name: "host", Version: orUnknown(host)},
	}}
}

// commit prefers the linker stamp, then the vcs revision go build records
func commit(stamped string) string {
	if stamped != "" && stamped != "none" {
		return stamped
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
