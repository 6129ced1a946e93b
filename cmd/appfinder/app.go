package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/taigrr/appfinder/internal/cache"
	"github.com/taigrr/appfinder/internal/config"
	"github.com/taigrr/appfinder/internal/filesystem"
	"github.com/taigrr/appfinder/internal/locations"
	"github.com/taigrr/appfinder/internal/pathfilter"
	"github.com/taigrr/appfinder/internal/search"
)

// app owns the services shared by every command.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	cache      *cache.Cache
	pathFilter *pathfilter.PathFilter
	search     *search.Service
}

func newApp(configPath string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	extra, err := locations.FromConfig(cfg.ExtraRoots)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	pf := pathfilter.New(cfg.PathFilter())
	resultCache := cache.New(cache.Options{
		TTL:           cfg.CacheTTL,
		SweepInterval: cfg.CacheSweepInterval,
		Logger:        logger,
	})

	svc := search.New(search.Options{
		Scanner: filesystem.New(filesystem.Options{
			PathFilter:         pf,
			RecursionThreshold: cfg.RecursionThreshold,
			MaxSubdirs:         cfg.MaxSubdirs,
		}),
		Roots:         locations.New(locations.Options{Extra: extra}),
		Cache:         resultCache,
		Logger:        logger,
		MaxResults:    cfg.MaxResults,
		MaxConcurrent: cfg.MaxConcurrentSearches,
		Timeout:       cfg.SearchTimeout,
	})

	return &app{
		cfg:        cfg,
		logger:     logger,
		cache:      resultCache,
		pathFilter: pf,
		search:     svc,
	}, nil
}
