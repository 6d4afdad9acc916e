// Package buildinfo exposes the build stamp injected at link time via
// -ldflags and a helper to print it on startup.
package buildinfo

import (
	"fmt"
	"io"
)

// Set via -ldflags "-X github.com/teamgensourei/boundary/internal/buildinfo.Version=..."
var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// Print writes the build stamp to w, one line per field.
func Print(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
