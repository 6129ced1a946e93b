package types

import (
	"fmt"
	"strings"
)

// Group identifies a family of search roots that are scanned together.
type Group int

const (
	GroupStartMenu Group = iota
	GroupDesktop
	GroupKnownFolders
	GroupPrograms
)

// Groups lists every group in merge order.
var Groups = []Group{GroupStartMenu, GroupDesktop, GroupKnownFolders, GroupPrograms}

var groupNames = [...]string{
	GroupStartMenu:    "start-menu",
	GroupDesktop:      "desktop",
	GroupKnownFolders: "known-folders",
	GroupPrograms:     "programs",
}

func (g Group) String() string {
	if g < 0 || int(g) >= len(groupNames) {
		return fmt.Sprintf("group(%d)", int(g))
	}
	return groupNames[g]
}

// MarshalText implements encoding.TextMarshaler.
func (g Group) MarshalText() ([]byte, error) {
	if g < 0 || int(g) >= len(groupNames) {
		return nil, fmt.Errorf("unknown group %d", int(g))
	}
	return []byte(groupNames[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Group) UnmarshalText(text []byte) error {
	parsed, err := ParseGroup(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGroup parses a group name case-insensitively.
func ParseGroup(s string) (Group, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range groupNames {
		if n == name {
			return Group(i), nil
		}
	}
	return 0, fmt.Errorf("unknown group %q", s)
}

// DefaultKind is the kind assigned to unrecognized files found under the group.
func (g Group) DefaultKind() Kind {
	switch g {
	case GroupStartMenu, GroupDesktop:
		return KindShortcut
	case GroupPrograms:
		return KindApplication
	default:
		return KindFolder
	}
}

type (
	// Root is one directory the finder scans.
	Root struct {
		Group       Group  `json:"group" yaml:"group"`
		Path        string `json:"path" yaml:"path"`
		DefaultKind Kind   `json:"kind" yaml:"kind"`
	}

	// RootConfig is a user-configured extra root. Kind defaults to the
	// group's default when empty.
	RootConfig struct {
		Group string `yaml:"group"`
		Path  string `yaml:"path"`
		Kind  string `yaml:"kind,omitempty"`
	}

	// PathFilterConfig contains configuration for the path filter.
	PathFilterConfig struct {
		IgnoredPatterns []string `json:"ignoredPatterns" yaml:"ignored_patterns"`
	}
)
