// Package filesystem scans directories for entries whose names match a
// search term.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/appfinder/internal/pathfilter"
	"github.com/taigrr/appfinder/internal/textutil"
	"github.com/taigrr/appfinder/internal/types"
)

const (
	DefaultRecursionThreshold = 20
	DefaultMaxSubdirs         = 5
)

// DirReader lists the entries of a directory in enumeration order.
type DirReader interface {
	ReadDir(name string) ([]fs.DirEntry, error)
}

// DirReaderFunc adapts a function to a DirReader.
type DirReaderFunc func(name string) ([]fs.DirEntry, error)

// ReadDir calls f(name).
func (f DirReaderFunc) ReadDir(name string) ([]fs.DirEntry, error) {
	return f(name)
}

// OSReader reads directories from the host filesystem. Entries come back
// sorted by name.
var OSReader DirReader = DirReaderFunc(os.ReadDir)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	Reader             DirReader
	PathFilter         *pathfilter.PathFilter
	RecursionThreshold int
	MaxSubdirs         int
}

// Service scans directories for matching entries.
type Service struct {
	reader     DirReader
	pathFilter *pathfilter.PathFilter
	threshold  int
	maxSubdirs int
}

// Report is the outcome of scanning one root.
type Report struct {
	Matches []types.SearchResult
	Skips   []types.Skip
}

// New creates a new scanner Service.
func New(opts Options) *Service {
	s := &Service{
		reader:     opts.Reader,
		pathFilter: opts.PathFilter,
		threshold:  opts.RecursionThreshold,
		maxSubdirs: opts.MaxSubdirs,
	}
	if s.reader == nil {
		s.reader = OSReader
	}
	if s.pathFilter == nil {
		s.pathFilter = pathfilter.New(nil)
	}
	if s.threshold <= 0 {
		s.threshold = DefaultRecursionThreshold
	}
	if s.maxSubdirs <= 0 {
		s.maxSubdirs = DefaultMaxSubdirs
	}
	return s
}

// Scan searches dir for entries whose name contains term, ignoring case.
// Files match on their name without extension, directories on their full
// name. When fewer than the recursion threshold match at a level, the first
// few subdirectories are scanned the same way.
//
// Directories that cannot be read are recorded in the report's skips and
// contribute nothing. Scan fails only when ctx is done or when reading a
// subdirectory panics, in which case the error is a *PanicError.
func (s *Service) Scan(ctx context.Context, dir, term string, defaultKind types.Kind) (Report, error) {
	needle := textutil.Fold(strings.TrimSpace(term))
	if needle == "" {
		return Report{}, ctx.Err()
	}
	return s.scanDir(ctx, dir, needle, defaultKind)
}

func (s *Service) scanDir(ctx context.Context, dir, needle string, defaultKind types.Kind) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	var report Report
	if !s.pathFilter.IsAllowed(dir) {
		report.Skips = append(report.Skips, types.Skip{Path: dir, Reason: types.SkipFiltered})
		return report, nil
	}

	entries, err := s.reader.ReadDir(dir)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Report{}, ctxErr
	}
	if err != nil {
		report.Skips = append(report.Skips, types.Skip{Path: dir, Reason: classify(err), Err: err})
		return report, nil
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		fullPath := filepath.Join(dir, name)

		// Symlinks are treated as files so the walk never follows a cycle.
		if entry.IsDir() {
			if !s.pathFilter.IsAllowed(fullPath) {
				report.Skips = append(report.Skips, types.Skip{Path: fullPath, Reason: types.SkipFiltered})
				continue
			}
			subdirs = append(subdirs, fullPath)
			if textutil.ContainsFold(name, needle) {
				report.Matches = append(report.Matches, types.SearchResult{
					Name: name,
					Path: fullPath,
					Kind: types.KindFolder,
				})
			}
			continue
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if textutil.ContainsFold(stem, needle) {
			report.Matches = append(report.Matches, types.SearchResult{
				Name: stem,
				Path: fullPath,
				Kind: types.KindForFile(name, defaultKind),
			})
		}
	}

	if len(report.Matches) >= s.threshold || len(subdirs) == 0 {
		return report, nil
	}

	subdirs = subdirs[:min(len(subdirs), s.maxSubdirs)]
	children := make([]Report, len(subdirs))

	g, gctx := errgroup.WithContext(ctx)
	for i, subdir := range subdirs {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &PanicError{Dir: subdir, Value: r}
				}
			}()
			child, err := s.scanDir(gctx, subdir, needle, defaultKind)
			if err != nil {
				return err
			}
			children[i] = child
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	for _, child := range children {
		report.Matches = append(report.Matches, child.Matches...)
		report.Skips = append(report.Skips, child.Skips...)
	}

	return report, nil
}

// PanicError reports a panic raised while scanning a subdirectory.
type PanicError struct {
	Dir   string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic scanning %s: %v", e.Dir, e.Value)
}

// Exists reports whether path is an existing directory.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func classify(err error) types.SkipReason {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return types.SkipNotExist
	case errors.Is(err, fs.ErrPermission):
		return types.SkipPermission
	case errors.Is(err, syscall.ENOTDIR):
		return types.SkipNotDirectory
	default:
		return types.SkipIO
	}
}
