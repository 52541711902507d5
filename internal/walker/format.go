package walker

import (
	"path/filepath"
	"strings"
)

// extensionToFormat maps file extensions to the prose formats the tutor
// accepts.
var extensionToFormat = map[string]string{
	".txt":      "Plain text",
	".text":     "Plain text",
	".md":       "Markdown",
	".markdown": "Markdown",
	".mdx":      "Markdown",
	".rst":      "reStructuredText",
	".adoc":     "AsciiDoc",
	".org":      "Org",
	".tex":      "LaTeX",
	".html":     "HTML",
	".htm":      "HTML",
}

// specialFilenames maps extension-less names that usually hold prose.
var specialFilenames = map[string]string{
	"README":  "Plain text",
	"NOTES":   "Plain text",
	"CHANGES": "Plain text",
}

// DetectFormat returns the document format for a file path, or "" when the
// file does not look like prose.
func DetectFormat(path string) string {
	name := filepath.Base(path)
	if format, ok := specialFilenames[strings.ToUpper(name)]; ok {
		return format
	}
	return extensionToFormat[strings.ToLower(filepath.Ext(name))]
}
