package buildinfo

// Set with -ldflags "-X github.com/dailyspend/dailyspend/internal/buildinfo.Version=...".
var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
