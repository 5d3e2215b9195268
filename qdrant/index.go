// Package qdrant implements the vector index on a Qdrant collection.
package qdrant

import (
	"context"
	"encoding/json"

	"github.com/fwojciec/bpydocs"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// Collection defaults, overridable via environment variables read by the
// command layer.
const (
	DefaultHost       = "localhost"
	DefaultPort       = 6334
	DefaultCollection = "blender-docs"
	DefaultDimension  = 1536
)

// pointNamespace seeds deterministic point IDs. Qdrant point IDs must be
// UUIDs or integers, so each function path maps to a stable UUIDv5; the
// same entry always lands on the same point across index runs.
var pointNamespace = uuid.MustParse("8f2a1f76-3bb2-4f0e-9c55-2f6a90b1d1a4")

func pointID(functionPath string) string {
	return uuid.NewSHA1(pointNamespace, []byte(functionPath)).String()
}

// Config holds Qdrant connection and collection settings.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Dimension  uint64
}

var _ bpydocs.VectorIndex = (*Index)(nil)

// Index stores entry vectors in a Qdrant collection and answers cosine
// similarity queries over them.
type Index struct {
	client     *qdrant.Client
	collection string
	dimension  uint64
}

// NewIndex connects to Qdrant and returns an Index. Zero-value config
// fields select the defaults.
func NewIndex(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = DefaultDimension
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EUNAVAILABLE, "failed to connect to Qdrant: %v", err)
	}

	return &Index{
		client:     client,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
	}, nil
}

// Close releases the underlying gRPC connection.
func (idx *Index) Close() error {
	return idx.client.Close()
}

// EnsureCollection creates the collection with cosine distance if it does
// not already exist.
func (idx *Index) EnsureCollection(ctx context.Context) error {
	exists, err := idx.client.CollectionExists(ctx, idx.collection)
	if err != nil {
		return bpydocs.Errorf(bpydocs.EUNAVAILABLE, "failed to check collection: %v", err)
	}
	if exists {
		return nil
	}

	err = idx.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: idx.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     idx.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return bpydocs.Errorf(bpydocs.EUNAVAILABLE, "failed to create collection: %v", err)
	}
	return nil
}

// Upsert inserts or replaces vectors by function path.
func (idx *Index) Upsert(ctx context.Context, vectors []bpydocs.Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(vectors))
	for i := range vectors {
		v := &vectors[i]
		if len(v.Values) != int(idx.dimension) {
			return bpydocs.Errorf(bpydocs.EINVALID,
				"vector for %q has %d dimensions, collection expects %d",
				v.ID, len(v.Values), idx.dimension)
		}

		payload, err := metadataToPayload(&v.Metadata)
		if err != nil {
			return err
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(v.ID)),
			Vectors: qdrant.NewVectors(v.Values...),
			Payload: payload,
		})
	}

	_, err := idx.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: idx.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return bpydocs.Errorf(bpydocs.EUNAVAILABLE, "failed to upsert points: %v", err)
	}
	return nil
}

// Query returns up to limit matches ranked by cosine similarity.
func (idx *Index) Query(ctx context.Context, embedding []float32, limit int) ([]bpydocs.SearchResult, error) {
	if len(embedding) != int(idx.dimension) {
		return nil, bpydocs.Errorf(bpydocs.EINVALID,
			"query embedding has %d dimensions, collection expects %d",
			len(embedding), idx.dimension)
	}
	if limit <= 0 {
		return nil, bpydocs.Errorf(bpydocs.EINVALID, "query limit must be positive")
	}

	points, err := idx.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: idx.collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EUNAVAILABLE, "vector query failed: %v", err)
	}

	results := make([]bpydocs.SearchResult, 0, len(points))
	for _, p := range points {
		md, err := metadataFromPayload(p.Payload)
		if err != nil {
			return nil, err
		}
		results = append(results, bpydocs.SearchResult{
			ID:       md.FunctionPath,
			Score:    p.Score,
			Metadata: *md,
		})
	}
	return results, nil
}

// Fetch retrieves the metadata record for an exact function path. It first
// retrieves by the path's derived point ID, then falls back to a payload
// filter scroll for points indexed under a different ID scheme.
func (idx *Index) Fetch(ctx context.Context, functionPath string) (*bpydocs.EntryMetadata, error) {
	if functionPath == "" {
		return nil, bpydocs.Errorf(bpydocs.EINVALID, "function path required")
	}

	points, err := idx.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: idx.collection,
		Ids:            []*qdrant.PointId{qdrant.NewID(pointID(functionPath))},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EUNAVAILABLE, "point lookup failed: %v", err)
	}
	if len(points) > 0 {
		return metadataFromPayload(points[0].Payload)
	}

	scrolled, err := idx.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: idx.collection,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("function_path", functionPath)},
		},
		Limit:       qdrant.PtrOf(uint32(1)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EUNAVAILABLE, "point scroll failed: %v", err)
	}
	if len(scrolled) == 0 {
		return nil, bpydocs.Errorf(bpydocs.ENOTFOUND, "function %q not indexed", functionPath)
	}
	return metadataFromPayload(scrolled[0].Payload)
}

// metadataToPayload converts a metadata record into a Qdrant payload map.
// Going through JSON keeps payload keys aligned with the record's JSON
// field names, which the Fetch filter relies on.
func metadataToPayload(md *bpydocs.EntryMetadata) (map[string]*qdrant.Value, error) {
	raw, err := json.Marshal(md)
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EINTERNAL, "failed to encode metadata: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, bpydocs.Errorf(bpydocs.EINTERNAL, "failed to decode metadata: %v", err)
	}
	payload, err := qdrant.TryValueMap(m)
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EINTERNAL, "failed to build payload: %v", err)
	}
	return payload, nil
}

// metadataFromPayload is the inverse of metadataToPayload.
func metadataFromPayload(payload map[string]*qdrant.Value) (*bpydocs.EntryMetadata, error) {
	m := make(map[string]any, len(payload))
	for k, v := range payload {
		m[k] = valueToAny(v)
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, bpydocs.Errorf(bpydocs.EINTERNAL, "failed to encode payload: %v", err)
	}
	var md bpydocs.EntryMetadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil, bpydocs.Errorf(bpydocs.EINTERNAL, "failed to decode payload: %v", err)
	}
	if err := md.Validate(); err != nil {
		return nil, err
	}
	return &md, nil
}

func valueToAny(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		values := kind.ListValue.GetValues()
		out := make([]any, 0, len(values))
		for _, item := range values {
			out = append(out, valueToAny(item))
		}
		return out
	case *qdrant.Value_StructValue:
		fields := kind.StructValue.GetFields()
		out := make(map[string]any, len(fields))
		for k, item := range fields {
			out[k] = valueToAny(item)
		}
		return out
	default:
		return nil
	}
}
