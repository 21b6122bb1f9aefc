package pipeline

import (
	"context"
	"errors"
	"strings"

	"techgear-support-be/internal/constant"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/llm"
	"techgear-support-be/pkg/rag/prompt"
	"techgear-support-be/pkg/rag/response"
	"techgear-support-be/pkg/rag/search"
	"techgear-support-be/pkg/store"
)

const DefaultTopK = 3

// RAGConfig tunes retrieval and completion
type RAGConfig struct {
	TopK        int
	Temperature float64
	MaxTokens   int
}

// DefaultRAGConfig mirrors the production defaults
func DefaultRAGConfig() RAGConfig {
	return RAGConfig{
		TopK:        DefaultTopK,
		Temperature: 0.3,
	}
}

// RAGPipeline answers a query from the knowledge base: retrieve, build the
// grounded prompt, complete once. It never returns an error; failures become
// the degraded reply.
type RAGPipeline struct {
	retriever search.Retriever
	llm       llm.LLMProvider
	builder   *prompt.Builder
	config    RAGConfig
	logger    logger.ILogger
}

func NewRAGPipeline(
	retriever search.Retriever,
	llmProvider llm.LLMProvider,
	builder *prompt.Builder,
	config RAGConfig,
	logger logger.ILogger,
) *RAGPipeline {
	if config.TopK <= 0 {
		config.TopK = DefaultTopK
	}
	if builder == nil {
		builder = prompt.NewBuilder()
	}
	return &RAGPipeline{
		retriever: retriever,
		llm:       llmProvider,
		builder:   builder,
		config:    config,
		logger:    logger,
	}
}

func (p *RAGPipeline) completionOptions() []llm.Option {
	opts := []llm.Option{llm.WithTemperature(p.config.Temperature)}
	if p.config.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(p.config.MaxTokens))
	}
	return opts
}

// Execute fills state with a knowledge-grounded answer
func (p *RAGPipeline) Execute(ctx context.Context, state *store.State) {
	state.Annotate(constant.MetaResponseSource, constant.ResponseSourceRAGChain)

	query := strings.TrimSpace(state.UserQuery)
	if query == "" {
		p.logger.Warn("RAG", "Blank query, skipping retrieval", map[string]interface{}{
			"conversation_id": state.ConversationID,
		})
		state.Annotate(constant.MetaRAGUsed, false)
		state.Annotate(constant.MetaRAGSkipped, true)
		state.Annotate(constant.MetaDocumentCount, 0)
		p.respond(state, response.EmptyQueryReply)
		return
	}

	state.Annotate(constant.MetaRAGUsed, true)

	results, err := p.retriever.Search(ctx, state.UserQuery, p.config.TopK)
	if err != nil {
		p.degrade(state, constant.ErrorTypeRetrievalUnavailable, err)
		return
	}
	docs := search.ToDocuments(results, p.config.TopK)

	p.logger.Info("RAG", "Documents retrieved", map[string]interface{}{
		"conversation_id": state.ConversationID,
		"count":           len(docs),
	})

	completion, err := p.llm.Generate(ctx, p.builder.Build(state.UserQuery, docs), p.completionOptions()...)
	if err != nil {
		p.degrade(state, constant.ErrorTypeGenerationFailure, err)
		return
	}

	state.AttachDocuments(docs)
	state.Annotate(constant.MetaDocumentCount, len(docs))
	p.respond(state, completion)
}

func (p *RAGPipeline) degrade(state *store.State, errorType string, err error) {
	p.logger.Error("RAG", "Answer generation degraded", map[string]interface{}{
		"conversation_id": state.ConversationID,
		"error_type":      errorType,
		"timed_out":       errors.Is(err, llm.ErrTimeout),
		"error":           err.Error(),
	})
	state.Annotate(constant.MetaDocumentCount, 0)
	state.Annotate(constant.MetaError, err.Error())
	state.Annotate(constant.MetaErrorType, errorType)
	p.respond(state, response.DegradedReply)
}

func (p *RAGPipeline) respond(state *store.State, text string) {
	if err := state.Respond(text); err != nil {
		p.logger.Warn("RAG", "Response already set", map[string]interface{}{
			"conversation_id": state.ConversationID,
		})
	}
}
