package factory

import (
	"context"
	"fmt"

	"techgear-support-be/internal/config"
	"techgear-support-be/pkg/llm"
	"techgear-support-be/pkg/llm/gemini"
	"techgear-support-be/pkg/llm/huggingface"
	"techgear-support-be/pkg/llm/ollama"
)

// NewLLMProvider builds the completion backend selected by cfg.Ai.LLMProvider
func NewLLMProvider(ctx context.Context, cfg *config.Config) (llm.LLMProvider, error) {
	switch cfg.Ai.LLMProvider {
	case "gemini":
		provider, err := gemini.NewGeminiProvider(ctx, cfg.Keys.GoogleGemini, cfg.Ai.LLMModel)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "ollama":
		baseURL := cfg.Ai.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Ai.LLMModel), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(cfg.Keys.HuggingFace, "", cfg.Ai.LLMModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Ai.LLMProvider)
	}
}
