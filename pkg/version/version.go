// Package version holds the build version, set via -ldflags at release time.
package version

// Version is overridden with -ldflags "-X github.com/maxvaer/linkguard/pkg/version.Version=v1.2.3".
var Version = "dev"
