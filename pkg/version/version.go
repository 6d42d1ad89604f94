// Package version exposes build-time version metadata.
//
// The variables are overridden at build time via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/infinitehoax/WikiContributionReport/pkg/version.Version=v1.2.0"
package version

var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)
