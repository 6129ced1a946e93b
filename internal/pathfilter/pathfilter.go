// Package pathfilter decides which directories the scanner may descend into.
package pathfilter

import (
	"regexp"
	"strings"

	"github.com/taigrr/appfinder/internal/types"
)

// DefaultIgnoredPatterns are directories that never hold launchable
// applications but are expensive or noisy to walk.
var DefaultIgnoredPatterns = []string{
	"$Recycle.Bin",
	"System Volume Information",
	"WindowsApps",
	"node_modules",
	".git",
	"__pycache__",
	"**/Windows/WinSxS",
}

// PathFilter filters directories by glob pattern.
type PathFilter struct {
	ignoredPatterns []string
	compiled        []*regexp.Regexp
}

// New creates a new PathFilter with the given configuration.
func New(config *types.PathFilterConfig) *PathFilter {
	pf := &PathFilter{
		ignoredPatterns: append([]string(nil), DefaultIgnoredPatterns...),
	}

	if config != nil {
		pf.ignoredPatterns = append(pf.ignoredPatterns, config.IgnoredPatterns...)
	}

	for _, pattern := range pf.ignoredPatterns {
		if re := compileGlob(pattern); re != nil {
			pf.compiled = append(pf.compiled, re)
		}
	}

	return pf
}

// compileGlob converts a glob pattern to a case-insensitive regex.
// Patterns without a slash match a single path component; patterns with a
// slash match the whole path.
func compileGlob(pattern string) *regexp.Regexp {
	// Normalize pattern path separators (Windows compatibility)
	normalizedPattern := strings.ReplaceAll(strings.TrimSpace(pattern), "\\", "/")
	if normalizedPattern == "" {
		return nil
	}

	// Escape all regex special chars first
	regexPattern := regexp.QuoteMeta(normalizedPattern)

	// Convert glob patterns (unescape the escaped versions)
	regexPattern = strings.ReplaceAll(regexPattern, `\*\*`, ".*")  // ** matches any
	regexPattern = strings.ReplaceAll(regexPattern, `\*`, "[^/]*") // * matches non-slash
	regexPattern = strings.ReplaceAll(regexPattern, `\?`, "[^/]")  // ? matches single char

	if strings.Contains(normalizedPattern, "/") {
		regexPattern = "^" + regexPattern + "$"
	} else {
		regexPattern = "(^|/)" + regexPattern + "$"
	}

	re, err := regexp.Compile("(?i)" + regexPattern)
	if err != nil {
		return nil
	}
	return re
}

// IsAllowed reports whether the directory at path may be scanned.
func (pf *PathFilter) IsAllowed(path string) bool {
	if pf == nil {
		return true
	}

	normalizedPath := strings.TrimSuffix(strings.ReplaceAll(path, "\\", "/"), "/")

	for _, re := range pf.compiled {
		if re.MatchString(normalizedPath) {
			return false
		}
	}

	return true
}

// Patterns returns the active ignore patterns.
func (pf *PathFilter) Patterns() []string {
	return append([]string(nil), pf.ignoredPatterns...)
}
