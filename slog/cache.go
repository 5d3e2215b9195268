// Package slog provides logging decorators for bpydocs services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/bpydocs"
)

// Ensure LoggingCache implements bpydocs.Cache.
var _ bpydocs.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with hit/miss logging.
type LoggingCache struct {
	next   bpydocs.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next bpydocs.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// maxLoggedQueryLen bounds query text in log output.
const maxLoggedQueryLen = 50

func truncateQuery(query string) string {
	if len(query) <= maxLoggedQueryLen {
		return query
	}
	return query[:maxLoggedQueryLen] + "..."
}

// GetSearchResults delegates to the wrapped cache, logging the outcome.
func (c *LoggingCache) GetSearchResults(ctx context.Context, query string, limit int) ([]bpydocs.SearchResult, error) {
	begin := time.Now()
	results, err := c.next.GetSearchResults(ctx, query, limit)
	if err != nil {
		c.logger.Debug("search cache miss",
			"query", truncateQuery(query),
			"limit", limit,
			"duration", time.Since(begin),
		)
		return nil, err
	}
	c.logger.Debug("search cache hit",
		"query", truncateQuery(query),
		"limit", limit,
		"results", len(results),
		"duration", time.Since(begin),
	)
	return results, nil
}

// CacheSearchResults delegates to the wrapped cache.
func (c *LoggingCache) CacheSearchResults(ctx context.Context, query string, limit int, results []bpydocs.SearchResult) error {
	err := c.next.CacheSearchResults(ctx, query, limit, results)
	if err != nil {
		c.logger.Error("search cache write failed",
			"query", truncateQuery(query),
			"error", err,
		)
		return err
	}
	c.logger.Debug("search results cached",
		"query", truncateQuery(query),
		"limit", limit,
		"results", len(results),
	)
	return nil
}

// GetFunctionDetails delegates to the wrapped cache, logging the outcome.
func (c *LoggingCache) GetFunctionDetails(ctx context.Context, functionPath string) (*bpydocs.EntryMetadata, error) {
	begin := time.Now()
	details, err := c.next.GetFunctionDetails(ctx, functionPath)
	if err != nil {
		c.logger.Debug("function cache miss",
			"function_path", functionPath,
			"duration", time.Since(begin),
		)
		return nil, err
	}
	c.logger.Debug("function cache hit",
		"function_path", functionPath,
		"duration", time.Since(begin),
	)
	return details, nil
}

// CacheFunctionDetails delegates to the wrapped cache.
func (c *LoggingCache) CacheFunctionDetails(ctx context.Context, functionPath string, details *bpydocs.EntryMetadata) error {
	err := c.next.CacheFunctionDetails(ctx, functionPath, details)
	if err != nil {
		c.logger.Error("function cache write failed",
			"function_path", functionPath,
			"error", err,
		)
		return err
	}
	c.logger.Debug("function details cached", "function_path", functionPath)
	return nil
}

// ClearExpired delegates to the wrapped cache and logs the sweep result.
func (c *LoggingCache) ClearExpired(ctx context.Context) (int, error) {
	begin := time.Now()
	removed, err := c.next.ClearExpired(ctx)
	if err != nil {
		c.logger.Error("expired entry sweep failed", "error", err)
		return removed, err
	}
	c.logger.Info("expired cache entries cleared",
		"removed", removed,
		"duration", time.Since(begin),
	)
	return removed, nil
}

// Stats delegates to the wrapped cache.
func (c *LoggingCache) Stats(ctx context.Context) (*bpydocs.CacheStats, error) {
	return c.next.Stats(ctx)
}

// ClearAll delegates to the wrapped cache and logs the wipe.
func (c *LoggingCache) ClearAll(ctx context.Context) error {
	if err := c.next.ClearAll(ctx); err != nil {
		c.logger.Error("cache wipe failed", "error", err)
		return err
	}
	c.logger.Info("cache cleared")
	return nil
}
