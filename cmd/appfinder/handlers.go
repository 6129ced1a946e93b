package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/taigrr/appfinder/internal/search"
	"github.com/taigrr/appfinder/internal/types"
	"github.com/taigrr/appfinder/internal/uri"
)

func (a *app) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	resp, err := a.search.Find(ctx, types.SearchParams{
		Term:  input.Term,
		Limit: input.Limit,
	})
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, SearchOutput{}, searchFailure(err)
	}

	return nil, SearchOutput{
		ID:         resp.ID,
		Results:    toHits(resp.Results),
		Count:      len(resp.Results),
		Cached:     resp.Cached,
		DurationMS: resp.Duration.Milliseconds(),
	}, nil
}

func (a *app) handleLocations(ctx context.Context, req *mcp.CallToolRequest, input LocationsInput) (*mcp.CallToolResult, LocationsOutput, error) {
	roots := a.search.Roots()
	items := make([]LocationItem, 0, len(roots))
	for _, r := range roots {
		items = append(items, LocationItem{
			Group: r.Group.String(),
			Path:  r.Path,
			Kind:  r.DefaultKind.String(),
		})
	}

	return nil, LocationsOutput{
		Roots:           items,
		IgnoredPatterns: a.pathFilter.Patterns(),
	}, nil
}

func (a *app) handleInvalidateCache(ctx context.Context, req *mcp.CallToolRequest, input InvalidateCacheInput) (*mcp.CallToolResult, InvalidateCacheOutput, error) {
	term := strings.TrimSpace(input.Term)
	if term == "" {
		a.search.InvalidateCache()
		return nil, InvalidateCacheOutput{Success: true, Scope: "all"}, nil
	}

	a.search.InvalidateCacheTerm(term)
	return nil, InvalidateCacheOutput{Success: true, Scope: term}, nil
}

func toHits(results []types.SearchResult) []SearchHit {
	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, SearchHit{
			Name: r.Name,
			Path: r.Path,
			Kind: r.Kind.String(),
			URI:  uri.FileURI(r.Path),
		})
	}
	return hits
}

// searchFailure turns a search error into a message fit for a client.
func searchFailure(err error) error {
	switch {
	case errors.Is(err, search.ErrTimeout):
		return fmt.Errorf("search incomplete: %w", err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("search cancelled: %w", err)
	default:
		return err
	}
}
