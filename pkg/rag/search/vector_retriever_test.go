package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techgear-support-be/internal/entity"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/internal/repository/contract"
	"techgear-support-be/internal/repository/memory"
	"techgear-support-be/internal/repository/specification"
	"techgear-support-be/pkg/embedding"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0}}}, nil
}

type fakeChunkRepo struct {
	results   []*contract.ScoredKnowledgeChunk
	err       error
	lastLimit int
}

func (f *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	return nil
}

func (f *fakeChunkRepo) DeleteBySource(ctx context.Context, source string) error {
	return nil
}

func (f *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (f *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, vector []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeChunk, error) {
	f.lastLimit = limit
	return f.results, f.err
}

func TestVectorRetrieverSearch(t *testing.T) {
	repo := &fakeChunkRepo{results: []*contract.ScoredKnowledgeChunk{
		{
			Chunk:      &entity.KnowledgeChunk{Source: "products.txt", ChunkIndex: 4, Content: "SmartWatch Pro X ₹15,999", Metadata: map[string]interface{}{"section": "smartwatch"}},
			Similarity: 0.91,
		},
		{
			Chunk:      &entity.KnowledgeChunk{Source: "policies.txt", Content: "7-day returns"},
			Similarity: 0.42,
		},
	}}
	embedder := &fakeEmbedder{}
	r := NewVectorRetriever(embedder, repo, memory.NewEmbeddingCache(time.Minute), 0, logger.NewNopLogger())

	results, err := r.Search(context.Background(), "watch price", 3)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 3, repo.lastLimit)
	assert.Equal(t, "products.txt", results[0].Source)
	assert.Equal(t, 0.91, results[0].Score)
	assert.Equal(t, 4, results[0].Metadata["chunk_index"])
	assert.Equal(t, "smartwatch", results[0].Metadata["section"])

	_, err = r.Search(context.Background(), "Watch Price", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.calls, "second lookup should hit the embedding cache")
}

func TestVectorRetrieverFailures(t *testing.T) {
	t.Run("embedding error", func(t *testing.T) {
		r := NewVectorRetriever(&fakeEmbedder{err: errors.New("quota")}, &fakeChunkRepo{}, nil, 0, logger.NewNopLogger())
		_, err := r.Search(context.Background(), "q", 3)
		assert.ErrorIs(t, err, ErrRetrieverUnavailable)
	})

	t.Run("database error", func(t *testing.T) {
		r := NewVectorRetriever(&fakeEmbedder{}, &fakeChunkRepo{err: errors.New("connection refused")}, nil, 0, logger.NewNopLogger())
		_, err := r.Search(context.Background(), "q", 3)
		assert.ErrorIs(t, err, ErrRetrieverUnavailable)
	})
}

func TestWithTimeout(t *testing.T) {
	slow := RetrieverFunc(func(ctx context.Context, query string, k int) ([]Result, error) {
		select {
		case <-time.After(time.Second):
			return []Result{{Content: "late"}}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	_, err := WithTimeout(slow, 20*time.Millisecond).Search(context.Background(), "q", 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestToDocuments(t *testing.T) {
	results := []Result{{Content: "a", Score: 0.9}, {Content: "b", Score: 0.8}, {Content: "c"}, {Content: "d"}}

	docs := ToDocuments(results, 3)

	require.Len(t, docs, 3)
	for i, d := range docs {
		assert.Equal(t, i+1, d.Rank)
	}
	assert.Equal(t, "a", docs[0].Content)
	assert.Equal(t, 0.9, docs[0].Score)
	assert.Empty(t, ToDocuments(nil, 3))
}
