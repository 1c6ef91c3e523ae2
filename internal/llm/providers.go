package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/bimmerbailey/dumpsong/internal/config"
	"github.com/bimmerbailey/dumpsong/internal/llm/anthropic"
	"github.com/bimmerbailey/dumpsong/internal/llm/gemini"
	"github.com/bimmerbailey/dumpsong/internal/llm/ollama"
	"github.com/bimmerbailey/dumpsong/internal/llm/openai"
)

// resolveAPIKey checks config first, then falls back to environment variable.
// Returns empty string if neither is set.
func resolveAPIKey(configKey, envVarName string) string {
	if configKey != "" {
		return configKey
	}
	return os.Getenv(envVarName)
}

func missingKey(provider, envVar, configKey string) error {
	return fmt.Errorf("%s %w: set %s environment variable or %s in config",
		provider, ErrMissingAPIKey, envVar, configKey)
}

// --- OpenAI ---

func newOpenAIProvider(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (Provider, error) {
	apiKey := resolveAPIKey(cfg.LLM.OpenAI.APIKey, "OPENAI_API_KEY")
	if apiKey == "" {
		return nil, missingKey("openai", "OPENAI_API_KEY", "llm.openai.api_key")
	}

	client, err := openai.New(openai.Config{
		APIKey:  apiKey,
		BaseURL: cfg.LLM.OpenAI.BaseURL,
		OrgID:   resolveAPIKey(cfg.LLM.OpenAI.OrgID, "OPENAI_ORG_ID"),
	}, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai provider: %w", err)
	}

	logger.Info("initialized openai provider", "model", cfg.LLM.Model, "base_url", cfg.LLM.OpenAI.BaseURL)
	return &openAIAdapter{client: client, defaultModel: cfg.LLM.Model}, nil
}

type openAIAdapter struct {
	client       *openai.Client
	defaultModel string
}

func (a *openAIAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	req := openai.Request{Model: a.defaultModel}
	applyOptions(opts, &req.Model, &req.Temperature, &req.MaxTokens)
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := a.client.Chat(ctx, req)
	if errors.Is(err, openai.ErrEmptyContent) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if err != nil {
		return nil, err
	}
	return &Response{
		Content:      resp.Content,
		Model:        resp.Model,
		TokensPrompt: resp.PromptTokens,
		TokensTotal:  resp.TotalTokens,
	}, nil
}

// Heartbeat is a no-op for cloud providers; they fail at request time with
// clear error messages.
func (a *openAIAdapter) Heartbeat(ctx context.Context) error { return nil }

// --- Ollama ---

func newOllamaProvider(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (Provider, error) {
	provider, err := ollama.New(ollama.Config{
		Host:  cfg.LLM.Ollama.Host,
		Model: cfg.LLM.Model,
	}, httpClient, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("initialized ollama provider", "host", cfg.LLM.Ollama.Host, "model", cfg.LLM.Model)
	return &ollamaAdapter{provider: provider}, nil
}

// ollamaAdapter adapts the ollama.Provider to the llm.Provider interface.
// This is needed to avoid import cycles between llm and ollama packages.
type ollamaAdapter struct {
	provider *ollama.Provider
}

func (a *ollamaAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	ollamaMessages := make([]ollama.Message, len(messages))
	for i, msg := range messages {
		ollamaMessages[i] = ollama.Message{Role: msg.Role, Content: msg.Content}
	}

	var ollamaOpts *ollama.ChatOptions
	if opts != nil {
		ollamaOpts = &ollama.ChatOptions{
			Model:       opts.Model,
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
		}
	}

	resp, err := a.provider.Chat(ctx, ollamaMessages, ollamaOpts)
	if err != nil {
		return nil, err
	}
	return &Response{
		Content:      resp.Content,
		Model:        resp.Model,
		TokensPrompt: resp.TokensPrompt,
		TokensTotal:  resp.TokensTotal,
	}, nil
}

func (a *ollamaAdapter) Heartbeat(ctx context.Context) error {
	return a.provider.Heartbeat(ctx)
}

// --- Gemini ---

func newGeminiProvider(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (Provider, error) {
	apiKey := resolveAPIKey(cfg.LLM.Gemini.APIKey, "GEMINI_API_KEY")
	if apiKey == "" {
		return nil, missingKey("gemini", "GEMINI_API_KEY", "llm.gemini.api_key")
	}

	client, err := gemini.New(ctx, gemini.Config{
		APIKey:  apiKey,
		BaseURL: cfg.LLM.Gemini.BaseURL,
	}, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini provider: %w", err)
	}

	logger.Info("initialized gemini provider", "model", cfg.LLM.Model)
	return &geminiAdapter{client: client, defaultModel: cfg.LLM.Model}, nil
}

type geminiAdapter struct {
	client       *gemini.Client
	defaultModel string
}

func (a *geminiAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	req := gemini.Request{Model: a.defaultModel}
	applyOptions(opts, &req.Model, &req.Temperature, &req.MaxTokens)
	for _, m := range messages {
		req.Messages = append(req.Messages, gemini.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := a.client.Chat(ctx, req)
	if errors.Is(err, gemini.ErrEmptyContent) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if err != nil {
		return nil, err
	}
	return &Response{
		Content:      resp.Content,
		Model:        resp.Model,
		TokensPrompt: resp.PromptTokens,
		TokensTotal:  resp.TotalTokens,
	}, nil
}

func (a *geminiAdapter) Heartbeat(ctx context.Context) error { return nil }

// --- Anthropic ---

func newAnthropicProvider(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (Provider, error) {
	apiKey := resolveAPIKey(cfg.LLM.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, missingKey("anthropic", "ANTHROPIC_API_KEY", "llm.anthropic.api_key")
	}

	client, err := anthropic.New(anthropic.Config{
		APIKey:    apiKey,
		BaseURL:   cfg.LLM.Anthropic.BaseURL,
		MaxTokens: cfg.LLM.Anthropic.MaxTokens,
	}, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic provider: %w", err)
	}

	logger.Info("initialized anthropic provider", "model", cfg.LLM.Model)
	return &anthropicAdapter{client: client, defaultModel: cfg.LLM.Model}, nil
}

type anthropicAdapter struct {
	client       *anthropic.Client
	defaultModel string
}

func (a *anthropicAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	req := anthropic.Request{Model: a.defaultModel}
	applyOptions(opts, &req.Model, &req.Temperature, &req.MaxTokens)
	for _, m := range messages {
		req.Messages = append(req.Messages, anthropic.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := a.client.Chat(ctx, req)
	if errors.Is(err, anthropic.ErrEmptyContent) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if err != nil {
		return nil, err
	}
	return &Response{
		Content:      resp.Content,
		Model:        resp.Model,
		TokensPrompt: resp.PromptTokens,
		TokensTotal:  resp.TotalTokens,
	}, nil
}

func (a *anthropicAdapter) Heartbeat(ctx context.Context) error { return nil }

// applyOptions copies non-zero chat options over the request defaults.
func applyOptions(opts *ChatOptions, model *string, temperature *float32, maxTokens *int) {
	if opts == nil {
		return
	}
	if opts.Model != "" {
		*model = opts.Model
	}
	*temperature = opts.Temperature
	if opts.MaxTokens > 0 {
		*maxTokens = opts.MaxTokens
	}
}
