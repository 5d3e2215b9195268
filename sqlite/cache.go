package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/bpydocs"
)

// Cache defaults, overridable via environment variables.
const (
	DefaultCacheDir   = ".cache"
	DefaultTTLSeconds = 86400 // 24 hours

	EnvCacheDir   = "BLENDER_CACHE_DIR"
	EnvTTLSeconds = "CACHE_TTL_SECONDS"

	cacheFileName = "blender_docs_cache.db"
)

// Compile-time interface verification.
var _ bpydocs.Cache = (*CacheService)(nil)

// CacheService implements bpydocs.Cache using SQLite.
//
// Expiration is lazy: liveness is checked on every read and expired rows
// are deleted on the spot. ClearExpired exists only to bound growth from
// entries nobody reads again.
type CacheService struct {
	db  *DB
	ttl time.Duration
}

// NewCacheService creates a CacheService on an opened database.
func NewCacheService(db *DB, ttl time.Duration) *CacheService {
	return &CacheService{db: db, ttl: ttl}
}

// OpenCache resolves configuration, creates the cache directory and opens
// the backing database. Environment variables take precedence over the
// caller-supplied dir and ttlSeconds; zero values select the defaults.
//
// If the cache directory cannot be created due to insufficient permissions,
// the returned Cache is a DisabledCache: every operation is a no-op for the
// remaining lifetime of the process. A broken cache must only degrade the
// system to uncached operation, never block it.
func OpenCache(dir string, ttlSeconds int, logger *slog.Logger) (bpydocs.Cache, error) {
	if v := os.Getenv(EnvCacheDir); v != "" {
		dir = v
	}
	if v := os.Getenv(EnvTTLSeconds); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, bpydocs.Errorf(bpydocs.EINVALID, "invalid %s value %q", EnvTTLSeconds, v)
		}
		ttlSeconds = n
	}
	if dir == "" {
		dir = DefaultCacheDir
	}
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultTTLSeconds
	}
	ttl := time.Duration(ttlSeconds) * time.Second

	if err := os.MkdirAll(dir, 0o755); err != nil {
		if errors.Is(err, os.ErrPermission) {
			logger.Warn("cannot create cache directory, caching disabled for this session",
				"dir", dir, "error", err)
			return NewDisabledCache(ttl), nil
		}
		return nil, fmt.Errorf("failed to create cache directory %q: %w", dir, err)
	}

	db := NewDB(filepath.Join(dir, cacheFileName))
	if err := db.Open(); err != nil {
		return nil, err
	}
	return NewCacheService(db, ttl), nil
}

// SearchKey derives the cache key for a query/limit pair. The query is
// lowercased and trimmed so that case and surrounding-whitespace variants
// collapse to the same key; the limit is part of the key because it changes
// the cached result set.
func SearchKey(query string, limit int) string {
	key := fmt.Sprintf("%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// GetSearchResults returns the cached results for a query/limit pair.
func (s *CacheService) GetSearchResults(ctx context.Context, query string, limit int) ([]bpydocs.SearchResult, error) {
	key := SearchKey(query, limit)

	payload, err := s.readLive(ctx, "search_cache", "query_hash", "results", key)
	if err != nil {
		return nil, err
	}

	var results []bpydocs.SearchResult
	if err := json.Unmarshal([]byte(payload), &results); err != nil {
		return nil, fmt.Errorf("failed to decode cached search results: %w", err)
	}
	return results, nil
}

// CacheSearchResults stores results for a query/limit pair.
// The write is an upsert: an existing entry is replaced wholesale and its
// hit count starts over at zero.
func (s *CacheService) CacheSearchResults(ctx context.Context, query string, limit int, results []bpydocs.SearchResult) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode search results: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO search_cache (query_hash, query, results, created_at, hit_count)
		VALUES (?, ?, ?, ?, 0)
	`, SearchKey(query, limit), query, string(payload), time.Now().Unix())
	return err
}

// GetFunctionDetails returns the cached metadata for a function path.
func (s *CacheService) GetFunctionDetails(ctx context.Context, functionPath string) (*bpydocs.EntryMetadata, error) {
	payload, err := s.readLive(ctx, "function_cache", "function_path", "details", functionPath)
	if err != nil {
		return nil, err
	}

	var details bpydocs.EntryMetadata
	if err := json.Unmarshal([]byte(payload), &details); err != nil {
		return nil, fmt.Errorf("failed to decode cached function details: %w", err)
	}
	return &details, nil
}

// CacheFunctionDetails stores metadata for a function path.
func (s *CacheService) CacheFunctionDetails(ctx context.Context, functionPath string, details *bpydocs.EntryMetadata) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode function details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO function_cache (function_path, details, created_at, hit_count)
		VALUES (?, ?, ?, 0)
	`, functionPath, string(payload), time.Now().Unix())
	return err
}

// readLive looks up a row by key, evicting it if expired. On a live hit the
// row's hit count is incremented and the payload column returned. Misses
// and expirations are ENOTFOUND.
func (s *CacheService) readLive(ctx context.Context, table, keyCol, payloadCol, key string) (string, error) {
	var payload string
	var createdAt int64

	// The columns and table come from the fixed call sites above, never
	// from user input.
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s, created_at FROM %s WHERE %s = ?
	`, payloadCol, table, keyCol), key).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return "", bpydocs.Errorf(bpydocs.ENOTFOUND, "no cached entry for key %q", key)
	}
	if err != nil {
		return "", err
	}

	if time.Now().Unix()-createdAt >= int64(s.ttl/time.Second) {
		// Expired entries are evicted eagerly on read. The delete is
		// idempotent: concurrent readers of the same just-expired key may
		// both issue it, and the loser deletes nothing.
		if _, err := s.db.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table, keyCol), key); err != nil {
			return "", err
		}
		return "", bpydocs.Errorf(bpydocs.ENOTFOUND, "cached entry for key %q expired", key)
	}

	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET hit_count = hit_count + 1 WHERE %s = ?`, table, keyCol), key); err != nil {
		return "", err
	}

	return payload, nil
}

// ClearExpired removes every expired row from both namespaces and returns
// the total number of rows removed.
func (s *CacheService) ClearExpired(ctx context.Context) (int, error) {
	cutoff := time.Now().Unix() - int64(s.ttl/time.Second)

	searchRes, err := s.db.ExecContext(ctx, `DELETE FROM search_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	searchDeleted, err := searchRes.RowsAffected()
	if err != nil {
		return 0, err
	}

	functionRes, err := s.db.ExecContext(ctx, `DELETE FROM function_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return int(searchDeleted), err
	}
	functionDeleted, err := functionRes.RowsAffected()
	if err != nil {
		return int(searchDeleted), err
	}

	return int(searchDeleted + functionDeleted), nil
}

// Stats returns a snapshot of cache contents and hit accounting.
func (s *CacheService) Stats(ctx context.Context) (*bpydocs.CacheStats, error) {
	stats := &bpydocs.CacheStats{
		TTLHours: s.ttl.Hours(),
		Status:   bpydocs.CacheStatusActive,
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(hit_count), 0) FROM search_cache
	`).Scan(&stats.SearchEntries, &stats.SearchHits)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(hit_count), 0) FROM function_cache
	`).Scan(&stats.FunctionEntries, &stats.FunctionHits)
	if err != nil {
		return nil, err
	}

	stats.TotalEntries = stats.SearchEntries + stats.FunctionEntries
	stats.TotalHits = stats.SearchHits + stats.FunctionHits

	if s.db.Path() != ":memory:" {
		info, err := os.Stat(s.db.Path())
		if err != nil {
			return nil, fmt.Errorf("failed to stat cache database: %w", err)
		}
		stats.DatabaseSizeMB = math.Round(float64(info.Size())/1024/1024*100) / 100
	}

	return stats, nil
}

// ClearAll unconditionally empties both namespaces.
func (s *CacheService) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM search_cache`); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM function_cache`)
	return err
}

// Compile-time interface verification.
var _ bpydocs.Cache = (*DisabledCache)(nil)

// DisabledCache is the fail-soft variant of the cache, selected once at
// construction when the storage directory cannot be created. Reads miss,
// writes succeed without storing anything, and maintenance reports zero
// work. The instance stays disabled for the process lifetime; there is no
// retry.
type DisabledCache struct {
	ttl time.Duration
}

// NewDisabledCache creates a DisabledCache reporting the given TTL.
func NewDisabledCache(ttl time.Duration) *DisabledCache {
	return &DisabledCache{ttl: ttl}
}

// GetSearchResults always reports a miss.
func (c *DisabledCache) GetSearchResults(ctx context.Context, query string, limit int) ([]bpydocs.SearchResult, error) {
	return nil, bpydocs.Errorf(bpydocs.ENOTFOUND, "cache disabled")
}

// CacheSearchResults discards the results.
func (c *DisabledCache) CacheSearchResults(ctx context.Context, query string, limit int, results []bpydocs.SearchResult) error {
	return nil
}

// GetFunctionDetails always reports a miss.
func (c *DisabledCache) GetFunctionDetails(ctx context.Context, functionPath string) (*bpydocs.EntryMetadata, error) {
	return nil, bpydocs.Errorf(bpydocs.ENOTFOUND, "cache disabled")
}

// CacheFunctionDetails discards the details.
func (c *DisabledCache) CacheFunctionDetails(ctx context.Context, functionPath string, details *bpydocs.EntryMetadata) error {
	return nil
}

// ClearExpired reports zero rows removed.
func (c *DisabledCache) ClearExpired(ctx context.Context) (int, error) {
	return 0, nil
}

// Stats returns a fixed snapshot marked disabled.
func (c *DisabledCache) Stats(ctx context.Context) (*bpydocs.CacheStats, error) {
	return &bpydocs.CacheStats{
		TTLHours: c.ttl.Hours(),
		Status:   bpydocs.CacheStatusDisabled,
	}, nil
}

// ClearAll does nothing.
func (c *DisabledCache) ClearAll(ctx context.Context) error {
	return nil
}
