// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorstore stores and searches chunk embeddings in Qdrant.
package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/pdiddy/resynth/pkg/types"
)

// Embedder turns texts into vectors. Satisfied by embed.Client.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// upsertBatchSize bounds the chunks embedded and upserted per request.
const upsertBatchSize = 64

// Store keeps chunk embeddings in a Qdrant collection and implements the
// retrieval search interface over them.
type Store struct {
	client     *qdrant.Client
	embedder   Embedder
	collection string
	vectorSize int
}

// NewStore connects to Qdrant at urlStr ("http://host:port"; the gRPC port
// is the HTTP port plus one) and binds the store to a collection.
func NewStore(urlStr string, apiKey string, embedder Embedder, collection string, vectorSize int) (*Store, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: invalid qdrant URL %q: %w", urlStr, err)
	}

	host := parsed.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := 6334
	if parsed.Port() != "" {
		if httpPort, err := strconv.Atoi(parsed.Port()); err == nil {
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: connecting to qdrant: %w", err)
	}

	return &Store{
		client:     client,
		embedder:   embedder,
		collection: collection,
		vectorSize: vectorSize,
	}, nil
}

// EnsureCollection creates the collection if missing, or validates that an
// existing one has the expected vector size.
func (s *Store) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("vectorstore: checking collection %s: %w", s.collection, err)
	}

	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(s.vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("vectorstore: creating collection %s: %w", s.collection, err)
		}
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("vectorstore: inspecting collection %s: %w", s.collection, err)
	}
	if config := info.Config; config != nil && config.Params != nil {
		if vc := config.Params.GetVectorsConfig(); vc != nil {
			if params := vc.GetParams(); params != nil && int(params.Size) != s.vectorSize {
				return fmt.Errorf("vectorstore: collection %s has vector size %d, expected %d",
					s.collection, params.Size, s.vectorSize)
			}
		}
	}
	return nil
}

// IndexChunks embeds chunks and upserts them into the collection in
// batches. Point IDs are deterministic, so repeat indexing is idempotent.
func (s *Store) IndexChunks(ctx context.Context, chunks []types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := s.EnsureCollection(ctx); err != nil {
		return err
	}

	for start := 0; start < len(chunks); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}
		vectors, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("vectorstore: embedding batch at %d: %w", start, err)
		}

		points := make([]*qdrant.PointStruct, len(batch))
		for i, chunk := range batch {
			points[i] = &qdrant.PointStruct{
				Id:      qdrant.NewID(PointID(chunk.ChunkID)),
				Vectors: qdrant.NewVectors(vectors[i]...),
				Payload: qdrant.NewValueMap(chunkPayload(chunk)),
			}
		}

		if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Points:         points,
		}); err != nil {
			return fmt.Errorf("vectorstore: upserting batch at %d: %w", start, err)
		}
	}
	return nil
}

// Search embeds the query text and returns the topK most similar chunks
// scoring at or above threshold.
func (s *Store) Search(ctx context.Context, queryText string, topK int, threshold float64) ([]types.RetrievalResult, error) {
	if topK <= 0 {
		return nil, nil
	}
	vector, err := s.embedder.EmbedOne(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: embedding query: %w", err)
	}

	limit := uint64(topK)
	scoreThreshold := float32(threshold)
	req := &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if threshold > 0 {
		req.ScoreThreshold = &scoreThreshold
	}

	scored, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: searching %s: %w", s.collection, err)
	}

	results := make([]types.RetrievalResult, 0, len(scored))
	for _, point := range scored {
		if point.Payload == nil {
			continue
		}
		results = append(results, resultFromPayload(point.Payload, float64(point.Score)))
	}
	return results, nil
}

// ChunkByID fetches a single chunk by its chunk ID, or nil if absent.
func (s *Store) ChunkByID(ctx context.Context, chunkID string) (*types.RetrievalResult, error) {
	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.collection,
		Ids:            []*qdrant.PointId{qdrant.NewID(PointID(chunkID))},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: fetching chunk %s: %w", chunkID, err)
	}
	if len(points) == 0 || points[0].Payload == nil {
		return nil, nil
	}
	res := resultFromPayload(points[0].Payload, 1.0)
	return &res, nil
}

// Count returns the number of points in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("vectorstore: inspecting collection %s: %w", s.collection, err)
	}
	if info.PointsCount == nil {
		return 0, nil
	}
	return int(*info.PointsCount), nil
}
