// Package search finds applications, shortcuts and folders across the
// well-known locations of the machine.
package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/taigrr/appfinder/internal/cache"
	"github.com/taigrr/appfinder/internal/filesystem"
	"github.com/taigrr/appfinder/internal/locations"
	"github.com/taigrr/appfinder/internal/types"
)

const (
	DefaultMaxResults    = 50
	DefaultMaxConcurrent = 3
	DefaultTimeout       = 30 * time.Second
)

// Scanner scans one root directory.
type Scanner interface {
	Scan(ctx context.Context, dir, term string, defaultKind types.Kind) (filesystem.Report, error)
}

// RootSource lists the roots to scan.
type RootSource interface {
	Roots() []types.Root
}

// Options configures a Service. Nil or zero fields select the defaults.
type Options struct {
	Scanner       Scanner
	Roots         RootSource
	Cache         *cache.Cache
	Logger        *slog.Logger
	MaxResults    int
	MaxConcurrent int
	Timeout       time.Duration
	// OnSkip receives every directory the scanner skipped. It may be called
	// from several goroutines at once.
	OnSkip func(types.Skip)
}

// Service provides application search. It is safe for concurrent use.
type Service struct {
	scanner    Scanner
	roots      RootSource
	cache      *cache.Cache
	gate       *semaphore.Weighted
	logger     *slog.Logger
	maxResults int
	timeout    time.Duration
	onSkip     func(types.Skip)
}

// Response is the outcome of a completed search.
type Response struct {
	ID       string               `json:"id"`
	Results  []types.SearchResult `json:"results"`
	Cached   bool                 `json:"cached"`
	Duration time.Duration        `json:"duration"`
}

// New creates a new search Service.
func New(opts Options) *Service {
	s := &Service{
		scanner:    opts.Scanner,
		roots:      opts.Roots,
		cache:      opts.Cache,
		logger:     opts.Logger,
		maxResults: opts.MaxResults,
		timeout:    opts.Timeout,
		onSkip:     opts.OnSkip,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.scanner == nil {
		s.scanner = filesystem.New(filesystem.Options{})
	}
	if s.roots == nil {
		s.roots = locations.New(locations.Options{})
	}
	if s.cache == nil {
		s.cache = cache.New(cache.Options{Logger: s.logger})
	}
	if s.maxResults <= 0 {
		s.maxResults = DefaultMaxResults
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	s.gate = semaphore.NewWeighted(int64(maxConcurrent))
	return s
}

// Search returns the entries whose names contain term. A blank term yields
// an empty result without touching the disk. The error wraps ErrTimeout
// when the search ran out of time and context.Canceled when ctx was
// cancelled; neither is ever reported as an empty result.
func (s *Service) Search(ctx context.Context, term string) ([]types.SearchResult, error) {
	resp, err := s.Find(ctx, types.SearchParams{Term: term})
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Find runs a search with explicit parameters. Limit narrows the result
// count below the configured maximum.
func (s *Service) Find(ctx context.Context, params types.SearchParams) (Response, error) {
	if params.Limit < 0 {
		return Response{}, &SearchError{Message: "Search limit cannot be negative"}
	}

	term := strings.TrimSpace(params.Term)
	if term == "" {
		return Response{Results: []types.SearchResult{}}, nil
	}

	id := uuid.NewString()
	logger := s.logger.With("search_id", id, "term", term)
	start := time.Now()

	results, hit, err := s.cache.GetOrCompute(ctx, term, func(ctx context.Context) ([]types.SearchResult, error) {
		return s.run(ctx, logger, term)
	})
	duration := time.Since(start)
	if err != nil {
		logger.Info("search failed", "error", err, "duration", duration)
		return Response{}, err
	}

	if params.Limit > 0 && params.Limit < len(results) {
		results = results[:params.Limit]
	}

	logger.Info("search complete", "results", len(results), "cached", hit, "duration", duration)

	return Response{
		ID:       id,
		Results:  results,
		Cached:   hit,
		Duration: duration,
	}, nil
}

// Roots returns the roots a search would scan right now.
func (s *Service) Roots() []types.Root {
	return s.roots.Roots()
}

// InvalidateCache drops every cached search.
func (s *Service) InvalidateCache() {
	s.cache.InvalidateAll()
}

// InvalidateCacheTerm drops the cached search for term.
func (s *Service) InvalidateCacheTerm(term string) {
	s.cache.Invalidate(term)
}
