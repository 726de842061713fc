// Package build exposes version metadata stamped into the shiftcrew binary.
package build

import (
	"fmt"
	"runtime"
)

// Set at build time via -ldflags "-X github.com/shaharia-lab/shiftcrew/internal/build.Version=...".
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// Info is the build metadata reported by the version command and endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// Current returns the metadata of the running binary.
func Current() Info {
	return Info{
		Version:   Version,
		Commit:    CommitSHA,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String returns a single human-readable build info string.
func String() string {
	i := Current()
	return fmt.Sprintf("%s (commit %s, built %s, %s)", i.Version, i.Commit, i.BuildDate, i.GoVersion)
}
