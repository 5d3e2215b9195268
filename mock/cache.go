package mock

import (
	"context"

	"github.com/fwojciec/bpydocs"
)

var _ bpydocs.Cache = (*Cache)(nil)

// Cache is a mock implementation of bpydocs.Cache.
type Cache struct {
	GetSearchResultsFn     func(ctx context.Context, query string, limit int) ([]bpydocs.SearchResult, error)
	CacheSearchResultsFn   func(ctx context.Context, query string, limit int, results []bpydocs.SearchResult) error
	GetFunctionDetailsFn   func(ctx context.Context, functionPath string) (*bpydocs.EntryMetadata, error)
	CacheFunctionDetailsFn func(ctx context.Context, functionPath string, details *bpydocs.EntryMetadata) error
	ClearExpiredFn         func(ctx context.Context) (int, error)
	StatsFn                func(ctx context.Context) (*bpydocs.CacheStats, error)
	ClearAllFn             func(ctx context.Context) error
}

func (c *Cache) GetSearchResults(ctx context.Context, query string, limit int) ([]bpydocs.SearchResult, error) {
	return c.GetSearchResultsFn(ctx, query, limit)
}

func (c *Cache) CacheSearchResults(ctx context.Context, query string, limit int, results []bpydocs.SearchResult) error {
	return c.CacheSearchResultsFn(ctx, query, limit, results)
}

func (c *Cache) GetFunctionDetails(ctx context.Context, functionPath string) (*bpydocs.EntryMetadata, error) {
	return c.GetFunctionDetailsFn(ctx, functionPath)
}

func (c *Cache) CacheFunctionDetails(ctx context.Context, functionPath string, details *bpydocs.EntryMetadata) error {
	return c.CacheFunctionDetailsFn(ctx, functionPath, details)
}

func (c *Cache) ClearExpired(ctx context.Context) (int, error) {
	return c.ClearExpiredFn(ctx)
}

func (c *Cache) Stats(ctx context.Context) (*bpydocs.CacheStats, error) {
	return c.StatsFn(ctx)
}

func (c *Cache) ClearAll(ctx context.Context) error {
	return c.ClearAllFn(ctx)
}
