// Package types defines the data structures shared by the finder packages.
package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind classifies a matched filesystem entry.
type Kind int

const (
	KindApplication Kind = iota
	KindShortcut
	KindFolder
)

var kindNames = [...]string{
	KindApplication: "application",
	KindShortcut:    "shortcut",
	KindFolder:      "folder",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// KindForFile returns the kind of a regular file. Executables and shortcuts
// are recognized by extension; anything else gets fallback.
func KindForFile(name string, fallback Kind) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".exe":
		return KindApplication
	case ".lnk":
		return KindShortcut
	default:
		return fallback
	}
}

type (
	// SearchResult is one matched filesystem entry. Path is absolute and is
	// the entry's identity.
	SearchResult struct {
		Name string `json:"name"`
		Path string `json:"path"`
		Kind Kind   `json:"kind"`
	}

	// SearchParams contains parameters for a search request.
	SearchParams struct {
		Term  string `json:"term"`
		Limit int    `json:"limit,omitempty"`
	}
)

// Key returns the deduplication key for the result's path. Paths compare
// case-insensitively.
func (r SearchResult) Key() string {
	return PathKey(r.Path)
}

// PathKey normalizes a path for case-insensitive identity comparison.
func PathKey(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
