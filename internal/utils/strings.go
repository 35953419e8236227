package utils

import (
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/securevault/internal/ui"
)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// SanitizeFileName returns the base name of path with spaces replaced by
// underscores, the form uploaded files are stored under.
func SanitizeFileName(path string) string {
	return strings.ReplaceAll(filepath.Base(path), " ", "_")
}
