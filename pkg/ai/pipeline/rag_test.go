package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techgear-support-be/internal/constant"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/llm"
	"techgear-support-be/pkg/llm/ollama"
	"techgear-support-be/pkg/rag/response"
	"techgear-support-be/pkg/rag/search"
	"techgear-support-be/pkg/store"
)

func newRAG(r search.Retriever, l llm.LLMProvider) *RAGPipeline {
	return NewRAGPipeline(r, l, nil, DefaultRAGConfig(), logger.NewNopLogger())
}

func TestRAGPipelineAnswers(t *testing.T) {
	retriever := &stubRetriever{results: []search.Result{
		{Content: "SmartWatch Pro X costs ₹15,999", Source: "products.txt", Score: 0.9},
		{Content: "Free shipping above ₹500", Source: "policies.txt", Score: 0.5},
		{Content: "Support hours 9 to 6", Source: "support.txt", Score: 0.4},
		{Content: "extra beyond K", Source: "extra.txt", Score: 0.1},
	}}
	completion := &stubLLM{reply: "The SmartWatch Pro X is priced at ₹15,999."}
	state := store.NewState("What is the price of SmartWatch Pro X?", "")

	newRAG(retriever, completion).Execute(context.Background(), state)

	assert.Equal(t, "The SmartWatch Pro X is priced at ₹15,999.", state.FinalResponse)
	assert.False(t, state.NeedsEscalation)
	assert.Equal(t, 1, retriever.calls)
	assert.Equal(t, DefaultTopK, retriever.lastK)
	assert.Equal(t, 1, completion.calls)

	require.Len(t, state.RetrievedDocuments, DefaultTopK)
	assert.Equal(t, 1, state.RetrievedDocuments[0].Rank)
	assert.Equal(t, "products.txt", state.RetrievedDocuments[0].Source)

	assert.Contains(t, completion.lastPrompt, "[Source 1]\nSmartWatch Pro X costs ₹15,999")
	assert.NotContains(t, completion.lastPrompt, "extra beyond K")
	assert.Contains(t, completion.lastPrompt, "Customer Question: What is the price of SmartWatch Pro X?")

	assert.Equal(t, true, state.Metadata[constant.MetaRAGUsed])
	assert.Equal(t, DefaultTopK, state.Metadata[constant.MetaDocumentCount])
	assert.Equal(t, constant.ResponseSourceRAGChain, state.Metadata[constant.MetaResponseSource])
	assert.NotContains(t, state.Metadata, constant.MetaError)
}

func TestRAGPipelineNoDocuments(t *testing.T) {
	completion := &stubLLM{reply: "I don't have that information in my knowledge base"}
	state := store.NewState("Do you sell laptops?", "")

	newRAG(&stubRetriever{}, completion).Execute(context.Background(), state)

	assert.NotEmpty(t, state.FinalResponse)
	assert.Empty(t, state.RetrievedDocuments)
	assert.Contains(t, completion.lastPrompt, "Context:\n"+constant.NoRelevantInformation)
	assert.Equal(t, 0, state.Metadata[constant.MetaDocumentCount])
}

func TestRAGPipelineDegrades(t *testing.T) {
	tests := []struct {
		name      string
		retriever *stubRetriever
		llm       *stubLLM
		errorType string
		llmCalls  int
	}{
		{
			name:      "retrieval failure",
			retriever: &stubRetriever{err: errors.New("index offline")},
			llm:       &stubLLM{reply: "unused"},
			errorType: constant.ErrorTypeRetrievalUnavailable,
			llmCalls:  0,
		},
		{
			name:      "completion failure",
			retriever: &stubRetriever{results: []search.Result{{Content: "x"}}},
			llm:       &stubLLM{err: errors.New("quota exceeded")},
			errorType: constant.ErrorTypeGenerationFailure,
			llmCalls:  1,
		},
		{
			name:      "completion deadline",
			retriever: &stubRetriever{},
			llm:       &stubLLM{err: context.DeadlineExceeded},
			errorType: constant.ErrorTypeGenerationFailure,
			llmCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := store.NewState("What is the warranty period?", "")

			newRAG(tt.retriever, tt.llm).Execute(context.Background(), state)

			assert.Equal(t, response.DegradedReply, state.FinalResponse)
			assert.False(t, state.NeedsEscalation)
			assert.Empty(t, state.RetrievedDocuments)
			assert.Equal(t, tt.errorType, state.Metadata[constant.MetaErrorType])
			assert.NotEmpty(t, state.Metadata[constant.MetaError])
			assert.Equal(t, tt.llmCalls, tt.llm.calls)
		})
	}
}

func TestRAGPipelineRetrieverTimeout(t *testing.T) {
	slow := search.RetrieverFunc(func(ctx context.Context, query string, k int) ([]search.Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	completion := &stubLLM{reply: "unused"}
	state := store.NewState("price of earbuds", "")

	newRAG(search.WithTimeout(slow, 10*time.Millisecond), completion).Execute(context.Background(), state)

	assert.Equal(t, response.DegradedReply, state.FinalResponse)
	assert.Equal(t, constant.ErrorTypeRetrievalUnavailable, state.Metadata[constant.MetaErrorType])
	assert.Equal(t, 0, completion.calls)
}

func TestRAGPipelineGenerationTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	retriever := &stubRetriever{results: []search.Result{
		{Content: "Earbuds cost ₹4,999", Source: "products.txt", Score: 0.8},
	}}
	slow := llm.WithTimeout(ollama.NewOllamaProvider(srv.URL, "llama3"), 20*time.Millisecond)
	state := store.NewState("price of earbuds", "")

	newRAG(retriever, slow).Execute(context.Background(), state)

	assert.Equal(t, response.DegradedReply, state.FinalResponse)
	assert.Equal(t, constant.ErrorTypeGenerationFailure, state.Metadata[constant.MetaErrorType])
	assert.Contains(t, state.Metadata[constant.MetaError], llm.ErrTimeout.Error())
	assert.Equal(t, 0, state.Metadata[constant.MetaDocumentCount])
}

func TestRAGPipelineBlankQuery(t *testing.T) {
	retriever := &stubRetriever{}
	completion := &stubLLM{reply: "unused"}
	state := store.NewState("   ", "")

	newRAG(retriever, completion).Execute(context.Background(), state)

	assert.Equal(t, response.EmptyQueryReply, state.FinalResponse)
	assert.Equal(t, 0, retriever.calls)
	assert.Equal(t, 0, completion.calls)
	assert.Equal(t, true, state.Metadata[constant.MetaRAGSkipped])
	assert.Equal(t, false, state.Metadata[constant.MetaRAGUsed])
}

func TestRAGPipelineConfigDefaults(t *testing.T) {
	p := NewRAGPipeline(&stubRetriever{}, &stubLLM{}, nil, RAGConfig{}, logger.NewNopLogger())
	assert.Equal(t, DefaultTopK, p.config.TopK)
	assert.NotNil(t, p.builder)
}
