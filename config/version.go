package config

import "fmt"

// Set with -ldflags "-X comrade/config.Version=..." at release time.
var (
	Version   = "dev"
	GitCommit = "local"
	BuildTime = "unknown"
)

// VersionString is printed by `comrade version`.
func VersionString() string {
	return fmt.Sprintf("comrade %s (%s, built %s)", Version, GitCommit, BuildTime)
}
