package search

import (
	"context"
	"fmt"

	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/internal/repository/contract"
	"techgear-support-be/internal/repository/memory"
	"techgear-support-be/pkg/embedding"
)

// VectorRetriever answers Search with a pgvector similarity query over knowledge_chunks
type VectorRetriever struct {
	embedder  embedding.EmbeddingProvider
	chunks    contract.KnowledgeChunkRepository
	cache     *memory.EmbeddingCache
	threshold float64
	logger    logger.ILogger
}

func NewVectorRetriever(
	embedder embedding.EmbeddingProvider,
	chunks contract.KnowledgeChunkRepository,
	cache *memory.EmbeddingCache,
	threshold float64,
	logger logger.ILogger,
) *VectorRetriever {
	return &VectorRetriever{
		embedder:  embedder,
		chunks:    chunks,
		cache:     cache,
		threshold: threshold,
		logger:    logger,
	}
}

func (r *VectorRetriever) embed(ctx context.Context, query string) ([]float32, error) {
	if r.cache != nil {
		if vector, ok := r.cache.Get(query); ok {
			return vector, nil
		}
	}

	res, err := r.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}
	if len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding generation failed: empty vector")
	}

	if r.cache != nil {
		r.cache.Save(query, res.Embedding.Values)
	}
	return res.Embedding.Values, nil
}

func (r *VectorRetriever) Search(ctx context.Context, query string, k int) ([]Result, error) {
	vector, err := r.embed(ctx, query)
	if err != nil {
		r.logger.Error("RETRIEVER", "Query embedding failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrRetrieverUnavailable, err)
	}

	scored, err := r.chunks.SearchSimilarWithScore(ctx, vector, k, r.threshold)
	if err != nil {
		r.logger.Error("RETRIEVER", "Vector search failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrRetrieverUnavailable, err)
	}

	results := make([]Result, 0, len(scored))
	for _, s := range scored {
		metadata := map[string]interface{}{"chunk_index": s.Chunk.ChunkIndex}
		for key, v := range s.Chunk.Metadata {
			metadata[key] = v
		}
		results = append(results, Result{
			Content:  s.Chunk.Content,
			Source:   s.Chunk.Source,
			Metadata: metadata,
			Score:    s.Similarity,
		})
	}

	r.logger.Debug("RETRIEVER", "Vector search done", map[string]interface{}{
		"requested": k,
		"returned":  len(results),
	})
	return results, nil
}
