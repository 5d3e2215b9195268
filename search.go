package bpydocs

import "context"

// SearchResult represents a single ranked match returned from the vector
// index. ID is the function path of the matched entry.
type SearchResult struct {
	ID       string        `json:"id"`
	Score    float32       `json:"score"`
	Metadata EntryMetadata `json:"metadata"`
}

// Embedder generates vector embeddings for free text.
type Embedder interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns embedding vectors for multiple texts, in input
	// order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Vector is an embedding with its identifier and metadata, ready for
// indexing. ID is the function path of the source entry.
type Vector struct {
	ID       string
	Values   []float32
	Metadata EntryMetadata
}

// VectorIndex stores entry vectors and answers similarity queries.
type VectorIndex interface {
	// EnsureCollection creates the backing collection if it does not exist.
	EnsureCollection(ctx context.Context) error

	// Upsert inserts or replaces vectors by ID.
	Upsert(ctx context.Context, vectors []Vector) error

	// Query returns up to limit matches ranked by similarity to the
	// embedding.
	Query(ctx context.Context, embedding []float32, limit int) ([]SearchResult, error)

	// Fetch retrieves the metadata record for an exact function path.
	// Returns ENOTFOUND if the path is not indexed.
	Fetch(ctx context.Context, functionPath string) (*EntryMetadata, error)
}
