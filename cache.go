package bpydocs

import "context"

// Cache statuses reported by Stats.
const (
	CacheStatusActive   = "active"
	CacheStatusDisabled = "disabled"
)

// Cache is a persistent, TTL-expiring cache for search results and
// function-detail records. The two namespaces are independent: search
// results are keyed by a digest of the normalized query and limit,
// function details by the function path itself.
//
// A read of an expired entry evicts it and reports a miss; expiration is
// evaluated lazily at read time. Misses are ENOTFOUND errors, never nil
// results. Implementations must tolerate redundant expired-entry deletes
// from concurrent readers.
type Cache interface {
	// GetSearchResults returns the cached results for a query/limit pair.
	// Returns ENOTFOUND on miss or expiration. A live hit increments the
	// entry's hit count.
	GetSearchResults(ctx context.Context, query string, limit int) ([]SearchResult, error)

	// CacheSearchResults stores results for a query/limit pair, replacing
	// any existing entry and resetting its hit count.
	CacheSearchResults(ctx context.Context, query string, limit int, results []SearchResult) error

	// GetFunctionDetails returns the cached metadata for a function path.
	// Same hit/miss/expiration semantics as GetSearchResults.
	GetFunctionDetails(ctx context.Context, functionPath string) (*EntryMetadata, error)

	// CacheFunctionDetails stores metadata for a function path, replacing
	// any existing entry and resetting its hit count.
	CacheFunctionDetails(ctx context.Context, functionPath string, details *EntryMetadata) error

	// ClearExpired removes every expired entry from both namespaces and
	// returns the total number of rows removed. Intended to run once at
	// process startup.
	ClearExpired(ctx context.Context) (int, error)

	// Stats returns a point-in-time snapshot of cache contents.
	Stats(ctx context.Context) (*CacheStats, error)

	// ClearAll unconditionally empties both namespaces.
	ClearAll(ctx context.Context) error
}

// CacheStats is a snapshot of cache contents and hit accounting.
type CacheStats struct {
	SearchEntries   int     `json:"searchEntries"`
	FunctionEntries int     `json:"functionEntries"`
	TotalEntries    int     `json:"totalEntries"`
	SearchHits      int     `json:"searchHits"`
	FunctionHits    int     `json:"functionHits"`
	TotalHits       int     `json:"totalHits"`
	DatabaseSizeMB  float64 `json:"databaseSizeMb"`
	TTLHours        float64 `json:"ttlHours"`
	Status          string  `json:"status"`
}
