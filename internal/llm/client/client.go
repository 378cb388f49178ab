package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// defaultClaudeMaxTokens bounds a single Claude response; the API requires it.
const defaultClaudeMaxTokens = 8192

// LLMClient is a tool-calling chat model bound to one provider and model.
type LLMClient struct {
	ChatModel model.ToolCallingChatModel
	Provider  string
	Model     string
}

type GeminiModelOptions struct {
	Model string
}

type ClaudeModelOptions struct {
	Model     string
	MaxTokens int
}

type OpenAIModelOptions struct {
	Model   string
	BaseURL string
}

func NewGeminiClient(ctx context.Context, key string, opts GeminiModelOptions) (*LLMClient, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("gemini model is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: gc,
		Model:  opts.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini chat model: %w", err)
	}
	return &LLMClient{ChatModel: cm, Provider: ProviderGemini, Model: opts.Model}, nil
}

func NewClaudeClient(ctx context.Context, key string, opts ClaudeModelOptions) (*LLMClient, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("anthropic model is required")
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultClaudeMaxTokens
	}
	cm, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:    key,
		Model:     opts.Model,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create claude chat model: %w", err)
	}
	return &LLMClient{ChatModel: cm, Provider: ProviderAnthropic, Model: opts.Model}, nil
}

func NewOpenAIClient(ctx context.Context, key string, opts OpenAIModelOptions) (*LLMClient, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("openai model is required")
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  key,
		Model:   opts.Model,
		BaseURL: opts.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return &LLMClient{ChatModel: cm, Provider: ProviderOpenAI, Model: opts.Model}, nil
}

// NewClient builds the client for provider.
func NewClient(ctx context.Context, provider, modelName, key string) (*LLMClient, error) {
	switch strings.TrimSpace(provider) {
	case ProviderGemini:
		return NewGeminiClient(ctx, key, GeminiModelOptions{Model: modelName})
	case ProviderAnthropic:
		return NewClaudeClient(ctx, key, ClaudeModelOptions{Model: modelName})
	case ProviderOpenAI:
		return NewOpenAIClient(ctx, key, OpenAIModelOptions{Model: modelName})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
