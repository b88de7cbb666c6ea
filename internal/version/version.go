// Package version carries build metadata and the startup banner.
package version

import (
	"fmt"
	"io"
	"runtime"
)

var (
	// Version is the application version, set via ldflags during build.
	Version = "dev"
	// GitCommit is the git commit hash, set via ldflags during build.
	GitCommit = "unknown"
	// BuildDate is the build timestamp, set via ldflags during build.
	BuildDate = "unknown"
)

// Info contains version and build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns version and build information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns the application version string.
func String() string {
	return Version
}

// PrintBanner writes the startup preamble: version, environment variables,
// token usage, and the pause hint. Written to stderr so piped frame output
// stays clean.
func PrintBanner(w io.Writer, programPath string) {
	fmt.Fprintln(w, "Version:", Version)
	fmt.Fprintln(w, "Environment variables: LOGFILE=<depthrig.log>")
	fmt.Fprintln(w, "Usage:", programPath, "[-gpu=<id>] [gl | cl | clkde | cuda | cudakde | cpu] [<device serial>]")
	fmt.Fprintln(w, "        [-noviewer] [-norgb | -nodepth] [-help] [-version]")
	fmt.Fprintln(w, "        [-frames <number of frames to process>]")
	fmt.Fprintln(w, "To pause and unpause: pkill -USR1 depthrig")
}
