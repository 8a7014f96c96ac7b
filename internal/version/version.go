// Package version holds the vkubridge build version.
package version

// Version is set at build time via:
//
//	-ldflags "-X github.com/vkutk/bridge/internal/version.Version=v1.0.0"
var Version = "dev"
