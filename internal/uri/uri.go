// Package uri builds file URIs for search results.
package uri

import (
	"net/url"
	"strings"
)

// FileURI returns the file URI for an absolute path. Windows paths keep
// their drive letter: C:\Apps\x.exe becomes file:///C:/Apps/x.exe.
func FileURI(path string) string {
	if path == "" {
		return ""
	}

	// Normalize separators; UNC shares become file://host/share
	slashed := strings.ReplaceAll(path, "\\", "/")
	if host, rest, ok := strings.Cut(strings.TrimPrefix(slashed, "//"), "/"); ok && strings.HasPrefix(slashed, "//") {
		return "file://" + host + "/" + escapeSegments(rest)
	}

	// URI encode each segment, but keep slashes as slashes
	encodedPath := escapeSegments(strings.TrimPrefix(slashed, "/"))

	return "file:///" + encodedPath
}

func escapeSegments(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
