package main

import "github.com/modelcontextprotocol/go-sdk/mcp"

type (
	// SearchInput contains parameters for searching applications.
	SearchInput struct {
		Term  string `json:"term" jsonschema:"Text the entry name must contain (case-insensitive)"`
		Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default and cap: 50)"`
	}

	// SearchHit is one application, shortcut or folder found by a search.
	SearchHit struct {
		Name string `json:"name"`
		Path string `json:"path"`
		Kind string `json:"kind"`
		URI  string `json:"uri"`
	}

	// SearchOutput contains the result of a search.
	SearchOutput struct {
		ID         string      `json:"id,omitempty"`
		Results    []SearchHit `json:"results"`
		Count      int         `json:"count"`
		Cached     bool        `json:"cached,omitempty"`
		DurationMS int64       `json:"durationMs"`
	}

	// LocationsInput takes no parameters.
	LocationsInput struct{}

	// LocationItem is one root directory a search scans.
	LocationItem struct {
		Group string `json:"group"`
		Path  string `json:"path"`
		Kind  string `json:"kind"`
	}

	// LocationsOutput lists the roots and the ignore patterns applied to them.
	LocationsOutput struct {
		Roots           []LocationItem `json:"roots"`
		IgnoredPatterns []string       `json:"ignoredPatterns"`
	}

	// InvalidateCacheInput contains parameters for dropping cached searches.
	InvalidateCacheInput struct {
		Term string `json:"term,omitempty" jsonschema:"Drop only this term (default: drop every cached search)"`
	}

	// InvalidateCacheOutput contains the result of a cache invalidation.
	InvalidateCacheOutput struct {
		Success bool   `json:"success"`
		Scope   string `json:"scope"`
	}
)

func (a *app) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Find installed applications, Start Menu and Desktop shortcuts, and folders whose name contains the term. Results are cached for a few minutes.",
	}, a.handleSearch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "locations",
		Description: "List the directories a search scans, grouped by location, and the ignore patterns applied.",
	}, a.handleLocations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "invalidate_cache",
		Description: "Drop cached search results so the next search rescans the disk. Pass a term to drop only that search.",
	}, a.handleInvalidateCache)
}
