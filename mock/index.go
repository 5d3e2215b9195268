package mock

import (
	"context"

	"github.com/fwojciec/bpydocs"
)

var _ bpydocs.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a mock implementation of bpydocs.VectorIndex.
type VectorIndex struct {
	EnsureCollectionFn func(ctx context.Context) error
	UpsertFn           func(ctx context.Context, vectors []bpydocs.Vector) error
	QueryFn            func(ctx context.Context, embedding []float32, limit int) ([]bpydocs.SearchResult, error)
	FetchFn            func(ctx context.Context, functionPath string) (*bpydocs.EntryMetadata, error)
}

func (i *VectorIndex) EnsureCollection(ctx context.Context) error {
	return i.EnsureCollectionFn(ctx)
}

func (i *VectorIndex) Upsert(ctx context.Context, vectors []bpydocs.Vector) error {
	return i.UpsertFn(ctx, vectors)
}

func (i *VectorIndex) Query(ctx context.Context, embedding []float32, limit int) ([]bpydocs.SearchResult, error) {
	return i.QueryFn(ctx, embedding, limit)
}

func (i *VectorIndex) Fetch(ctx context.Context, functionPath string) (*bpydocs.EntryMetadata, error) {
	return i.FetchFn(ctx, functionPath)
}
