// Package locations resolves the well-known directories the finder scans.
package locations

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/appfinder/internal/filesystem"
	"github.com/taigrr/appfinder/internal/types"
)

// Options configures an Enumerator.
type Options struct {
	// Extra roots are appended after the platform roots of the same group.
	Extra []types.Root
	// Candidates overrides the platform root list.
	Candidates func() []types.Root
	// Exists overrides the directory existence check.
	Exists func(path string) bool
}

// Enumerator lists the search roots present on this machine.
type Enumerator struct {
	extra      []types.Root
	candidates func() []types.Root
	exists     func(string) bool
}

// New creates a new Enumerator.
func New(opts Options) *Enumerator {
	e := &Enumerator{
		extra:      opts.Extra,
		candidates: opts.Candidates,
		exists:     opts.Exists,
	}
	if e.candidates == nil {
		e.candidates = platformRoots
	}
	if e.exists == nil {
		e.exists = filesystem.Exists
	}
	return e
}

// Roots returns the configured roots that currently exist, in group order.
// Unresolvable or missing roots are dropped silently.
func (e *Enumerator) Roots() []types.Root {
	all := append(e.candidates(), e.extra...)

	type seenKey struct {
		group types.Group
		path  string
	}
	seen := make(map[seenKey]bool, len(all))

	var roots []types.Root
	for _, group := range types.Groups {
		for _, root := range all {
			if root.Group != group || strings.TrimSpace(root.Path) == "" {
				continue
			}
			key := seenKey{group, types.PathKey(root.Path)}
			if seen[key] {
				continue
			}
			seen[key] = true
			if !e.exists(root.Path) {
				continue
			}
			roots = append(roots, root)
		}
	}
	return roots
}

// Grouped partitions roots by group, keeping their order.
func Grouped(roots []types.Root) map[types.Group][]types.Root {
	out := make(map[types.Group][]types.Root, len(types.Groups))
	for _, root := range roots {
		out[root.Group] = append(out[root.Group], root)
	}
	return out
}

// FromConfig converts configured extra roots. A blank kind takes the
// group's default.
func FromConfig(configs []types.RootConfig) ([]types.Root, error) {
	roots := make([]types.Root, 0, len(configs))
	for _, rc := range configs {
		group, err := types.ParseGroup(rc.Group)
		if err != nil {
			return nil, fmt.Errorf("extra root %q: %w", rc.Path, err)
		}
		kind := group.DefaultKind()
		if strings.TrimSpace(rc.Kind) != "" {
			kind, err = types.ParseKind(rc.Kind)
			if err != nil {
				return nil, fmt.Errorf("extra root %q: %w", rc.Path, err)
			}
		}
		if strings.TrimSpace(rc.Path) == "" {
			return nil, fmt.Errorf("extra root in group %s has an empty path", group)
		}
		path, err := filepath.Abs(rc.Path)
		if err != nil {
			return nil, fmt.Errorf("extra root %q: %w", rc.Path, err)
		}
		roots = append(roots, types.Root{Group: group, Path: path, DefaultKind: kind})
	}
	return roots, nil
}

func root(group types.Group, path string) types.Root {
	return types.Root{Group: group, Path: path, DefaultKind: group.DefaultKind()}
}
