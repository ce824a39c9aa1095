package version

import "fmt"

// set by the build via -ldflags -X
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// FullVersion is composed during package initialization. Values set by the
// linker with -X are already in place at that time.
var FullVersion = fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
