package gemini

import (
	"context"
	"errors"
	"fmt"

	"techgear-support-be/pkg/llm"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const DefaultModel = "gemini-2.0-flash"

var ErrEmptyCompletion = errors.New("gemini returned no choices")

// GeminiProvider talks to Google AI through langchaingo
type GeminiProvider struct {
	client *googleai.GoogleAI
	model  string
}

// Ensure GeminiProvider implements LLMProvider
var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := googleai.New(
		ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func callOptions(opts []llm.Option) []llms.CallOption {
	options := &llm.Options{Temperature: 0.3}
	for _, opt := range opts {
		opt(options)
	}

	out := []llms.CallOption{llms.WithTemperature(options.Temperature)}
	if options.MaxTokens > 0 {
		out = append(out, llms.WithMaxTokens(options.MaxTokens))
	}
	if options.Model != "" {
		out = append(out, llms.WithModel(options.Model))
	}
	return out
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem
	case "assistant", "model":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func (p *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	content := make([]llms.MessageContent, 0, len(history))
	for _, msg := range history {
		content = append(content, llms.TextParts(messageType(msg.Role), msg.Content))
	}

	resp, err := p.client.GenerateContent(ctx, content, callOptions(opts)...)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Content, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, p.client, prompt, callOptions(opts)...)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return completion, nil
}
