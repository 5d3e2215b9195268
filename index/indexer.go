// Package index implements the documentation indexing pipeline: parse
// reference pages, embed their entries and upsert the vectors.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/bpydocs"
	"golang.org/x/sync/errgroup"
)

// Pipeline defaults.
const (
	DefaultBatchSize   = 100
	DefaultConcurrency = 4
)

// Indexer parses reference pages and indexes their entries.
type Indexer struct {
	Parser   bpydocs.Parser
	Embedder bpydocs.Embedder
	Index    bpydocs.VectorIndex
	Logger   *slog.Logger

	// BatchSize is the number of entries embedded and upserted per batch.
	BatchSize int

	// Concurrency bounds the number of batches in flight.
	Concurrency int
}

// Result summarizes an indexing run.
type Result struct {
	Files   int // HTML files processed
	Entries int // entries extracted
	Vectors int // vectors upserted
	Failed  int // files that failed to parse
}

// IndexDir parses every *.html file in dir and indexes the extracted
// entries. Per-file parse failures are logged and counted, not fatal;
// embedding or upsert failures abort the run.
func (ix *Indexer) IndexDir(ctx context.Context, dir string) (*Result, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EINVALID, "invalid documentation directory %q: %v", dir, err)
	}
	if len(files) == 0 {
		return nil, bpydocs.Errorf(bpydocs.ENOTFOUND, "no HTML files found in %q", dir)
	}

	result := &Result{Files: len(files)}

	// Entries deduplicate by function path across files: index pages
	// repeat definitions that member pages also carry.
	seen := make(map[string]bool)
	var entries []*bpydocs.DocEntry

	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			ix.Logger.Warn("failed to read file", "file", file, "error", err)
			result.Failed++
			continue
		}

		parsed, err := ix.Parser.Parse(string(raw))
		if err != nil {
			ix.Logger.Warn("failed to parse file", "file", file, "error", err)
			result.Failed++
			continue
		}

		for _, e := range parsed {
			if seen[e.FunctionPath] {
				continue
			}
			seen[e.FunctionPath] = true
			e.DeriveModule()
			entries = append(entries, e)
		}

		ix.Logger.Debug("parsed file", "file", filepath.Base(file), "entries", len(parsed))
	}

	result.Entries = len(entries)
	ix.Logger.Info("parsed documentation", "files", result.Files, "entries", result.Entries, "failed", result.Failed)

	if len(entries) == 0 {
		return result, nil
	}

	if err := ix.Index.EnsureCollection(ctx); err != nil {
		return nil, err
	}

	batchSize := ix.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for start := 0; start < len(entries); start += batchSize {
		batch := entries[start:min(start+batchSize, len(entries))]
		g.Go(func() error {
			vectors, err := ix.embedBatch(gctx, batch)
			if err != nil {
				return err
			}
			if err := ix.Index.Upsert(gctx, vectors); err != nil {
				return err
			}

			mu.Lock()
			result.Vectors += len(vectors)
			mu.Unlock()

			ix.Logger.Debug("indexed batch", "vectors", len(vectors))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ix.Logger.Info("indexing complete", "vectors", result.Vectors)
	return result, nil
}

func (ix *Indexer) embedBatch(ctx context.Context, entries []*bpydocs.DocEntry) ([]bpydocs.Vector, error) {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.EmbeddingText()
	}

	embeddings, err := ix.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(entries) {
		return nil, bpydocs.Errorf(bpydocs.EINTERNAL,
			"got %d embeddings for %d entries", len(embeddings), len(entries))
	}

	vectors := make([]bpydocs.Vector, len(entries))
	for i, e := range entries {
		md := e.Metadata()
		md.ContentHash = hashContent(texts[i])
		vectors[i] = bpydocs.Vector{
			ID:       e.FunctionPath,
			Values:   embeddings[i],
			Metadata: md,
		}
	}
	return vectors, nil
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
