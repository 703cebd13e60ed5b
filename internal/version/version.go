package version

import "fmt"

// Build information, overridden at release time with
// -ldflags "-X github.com/arthur-debert/glyphs/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build information for `glyphs version`
func String() string {
	return fmt.Sprintf("glyphs version %s\n  commit: %s\n  built:  %s", Version, Commit, Date)
}
