// Package buildinfo holds release metadata injected at link time:
//
//	go build -ldflags "-X github.com/portfolio-labs/ptrack/internal/buildinfo.Version=v0.3.0"
package buildinfo

// Empty for local builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
