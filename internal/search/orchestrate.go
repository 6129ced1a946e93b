package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/appfinder/internal/filesystem"
	"github.com/taigrr/appfinder/internal/locations"
	"github.com/taigrr/appfinder/internal/types"
)

// groupFailure marks a group whose scan broke for a reason other than
// cancellation.
type groupFailure struct {
	root  string
	cause any
}

func (e *groupFailure) Error() string {
	return fmt.Sprintf("scanning %s: %v", e.root, e.cause)
}

// run performs one uncached search across every group.
func (s *Service) run(ctx context.Context, logger *slog.Logger, term string) ([]types.SearchResult, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.gate.Release(1)

	ctx, cancel := context.WithTimeoutCause(ctx, s.timeout, ErrTimeout)
	defer cancel()

	grouped := locations.Grouped(s.roots.Roots())
	perGroup := make([][]types.SearchResult, len(types.Groups))

	g, gctx := errgroup.WithContext(ctx)
	for i, group := range types.Groups {
		g.Go(func() error {
			results, err := s.searchGroup(gctx, logger.With("group", group.String()), grouped[group], term)
			if err != nil {
				return err
			}
			perGroup[i] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(context.Cause(ctx), ErrTimeout) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, s.timeout)
		}
		return nil, err
	}

	return merge(perGroup, s.maxResults), nil
}

// searchGroup scans the roots of one group concurrently. Anything but
// cancellation degrades the group to no results.
func (s *Service) searchGroup(ctx context.Context, logger *slog.Logger, roots []types.Root, term string) ([]types.SearchResult, error) {
	reports := make([]filesystem.Report, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &groupFailure{root: root.Path, cause: r}
				}
			}()
			report, err := s.scanner.Scan(gctx, root.Path, term, root.DefaultKind)
			if err != nil {
				if gctx.Err() == nil {
					return &groupFailure{root: root.Path, cause: err}
				}
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("search group failed", "error", err, "roots", len(roots))
		return nil, nil
	}

	var results []types.SearchResult
	for _, report := range reports {
		results = append(results, report.Matches...)
		for _, skip := range report.Skips {
			logger.Debug("skipped directory", "path", skip.Path, "reason", skip.Reason.String(), "error", skip.Err)
			if s.onSkip != nil {
				s.onSkip(skip)
			}
		}
	}
	return results, nil
}

// merge concatenates group results in group order, keeps the first entry
// for each path and stops at limit.
func merge(groups [][]types.SearchResult, limit int) []types.SearchResult {
	seen := make(map[string]struct{})
	out := make([]types.SearchResult, 0, limit)

	for _, results := range groups {
		for _, result := range results {
			if len(out) >= limit {
				return out
			}
			key := result.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, result)
		}
	}
	return out
}
