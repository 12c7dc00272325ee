// Package version holds the build metadata of defuse-box.
//
// Version, Commit and BuildTime are set through -ldflags at build time and
// keep their placeholder values in local builds.
package version
