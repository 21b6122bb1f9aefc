package pipeline

import (
	"context"
	"sync"

	"techgear-support-be/pkg/llm"
	"techgear-support-be/pkg/rag/search"
)

type stubRetriever struct {
	mu      sync.Mutex
	results []search.Result
	err     error
	calls   int
	lastK   int
}

func (s *stubRetriever) Search(ctx context.Context, query string, k int) ([]search.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastK = k
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

type stubLLM struct {
	mu         sync.Mutex
	reply      string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.Generate(ctx, history[len(history)-1].Content, options...)
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}
