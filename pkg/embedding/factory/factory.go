package factory

import (
	"fmt"

	"techgear-support-be/internal/config"
	"techgear-support-be/pkg/embedding"
	"techgear-support-be/pkg/embedding/jina"
)

// NewEmbeddingProvider builds the embedder selected by cfg.Ai.EmbeddingProvider
func NewEmbeddingProvider(cfg *config.Config) (embedding.EmbeddingProvider, error) {
	switch cfg.Ai.EmbeddingProvider {
	case "gemini":
		if cfg.Keys.GoogleGemini == "" {
			return nil, fmt.Errorf("gemini embedding requires GOOGLE_GEMINI_API_KEY")
		}
		return embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel), nil
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel), nil
	case "jina":
		if cfg.Keys.Jina == "" {
			return nil, fmt.Errorf("jina embedding requires JINA_API_KEY")
		}
		return jina.NewJinaProvider(cfg.Keys.Jina), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
}
