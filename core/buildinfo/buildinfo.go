// Package buildinfo carries version stamps injected with -ldflags:
//
//	-X 'github.com/m3rciful/giftbot/core/buildinfo.Version=v1.2.3'
//	-X 'github.com/m3rciful/giftbot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/m3rciful/giftbot/core/buildinfo.Date=2025-08-30T12:00:00Z'
package buildinfo

import "log/slog"

var (
	Version = "dev"
	Commit  = "local"
	Date    = ""
)

// String renders the stamp as "version (commit, date)".
func String() string {
	s := Version + " (" + Commit
	if Date != "" {
		s += ", " + Date
	}
	return s + ")"
}

// Attrs returns the stamp as log attributes.
func Attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("build_version", Version),
		slog.String("build_commit", Commit),
		slog.String("build_time", Date),
	}
}
