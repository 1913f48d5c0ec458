package common

import (
	"path"
	"regexp"
	"strings"
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9 ._-]`)
)

// SafeFilename reduces an uploaded file name to a storage-safe base name
// without its extension. It never returns an empty string.
func SafeFilename(name string) string {
	if name == "" {
		name = "file"
	}

	base := path.Base(name)
	// A leading dot alone does not start an extension (".pdf" stays ".pdf").
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}

	base = strings.TrimSpace(base)
	base = whitespaceRun.ReplaceAllString(base, " ")
	base = unsafeFileChars.ReplaceAllString(base, "")
	base = strings.TrimSpace(base)

	if base == "" || base == "." || base == "/" {
		return "file"
	}
	return base
}
