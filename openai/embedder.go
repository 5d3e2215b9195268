// Package openai implements text embedding using the OpenAI API.
package openai

import (
	"context"

	"github.com/fwojciec/bpydocs"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/time/rate"
)

// DefaultModel is used when no embedding model is configured. Its vectors
// have 1536 dimensions, which must match the index collection.
const DefaultModel = openai.EmbeddingModelTextEmbedding3Small

// maxBatchSize caps the number of inputs per embeddings request.
const maxBatchSize = 100

// EnvAPIKey and EnvModel configure the embedder from the environment.
const (
	EnvAPIKey = "OPENAI_API_KEY"
	EnvModel  = "OPENAI_EMBEDDING_MODEL"
)

var _ bpydocs.Embedder = (*Embedder)(nil)

// Embedder generates embedding vectors via the OpenAI embeddings endpoint.
type Embedder struct {
	client  openai.Client
	model   openai.EmbeddingModel
	limiter *rate.Limiter
}

// NewEmbedder creates an Embedder. An empty model selects DefaultModel;
// rps bounds the request rate, with zero meaning unlimited.
func NewEmbedder(apiKey, model string, rps float64) (*Embedder, error) {
	if apiKey == "" {
		return nil, bpydocs.Errorf(bpydocs.EINVALID, "OpenAI API key required")
	}
	if model == "" {
		model = DefaultModel
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &Embedder{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   openai.EmbeddingModel(model),
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// Embed returns the embedding vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, bpydocs.Errorf(bpydocs.EINVALID, "embedding text required")
	}

	vectors, err := e.request(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns embedding vectors for a slice of texts, in input
// order. Inputs are chunked to the API's batch limit.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if text == "" {
			return nil, bpydocs.Errorf(bpydocs.EINVALID, "embedding text %d is empty", i)
		}
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(texts))
		batch, err := e.request(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (e *Embedder) request(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.model,
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EUNAVAILABLE, "embedding request failed: %v", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, bpydocs.Errorf(bpydocs.EINTERNAL,
			"embedding response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	// Responses are not guaranteed to preserve input order; place each
	// vector by its reported index.
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}
