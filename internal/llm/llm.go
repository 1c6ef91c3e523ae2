package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bimmerbailey/dumpsong/internal/config"
)

// Provider defines the interface for LLM interactions.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Chat sends messages and returns a complete response.
	// Retryable failures are wrapped in llmerr.TransientError.
	Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error)

	// Heartbeat checks if the provider is reachable and healthy.
	Heartbeat(ctx context.Context) error
}

// Message represents a single message in a conversation.
type Message struct {
	// Role identifies the message sender: "system", "user", or "assistant"
	Role string

	// Content is the message text
	Content string
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatOptions configures chat behavior.
// All fields are optional; nil opts uses provider defaults.
type ChatOptions struct {
	// Model specifies which model to use (e.g., "gpt-4o-mini", "llama3.2")
	Model string

	// Temperature controls randomness. 0.7-0.9 gives playful variety.
	Temperature float32

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int
}

// Response represents a complete LLM response.
type Response struct {
	// Content is the primary text of the first choice
	Content string

	// Model is the name of the model that generated the response
	Model string

	// TokensPrompt is the number of tokens in the prompt
	TokensPrompt int

	// TokensTotal is the total number of tokens (prompt + completion)
	TokensTotal int
}

// Common errors returned by LLM providers.
var (
	// ErrProviderUnavailable indicates the LLM provider is not reachable
	ErrProviderUnavailable = errors.New("llm provider is not reachable")

	// ErrInvalidResponse indicates the provider returned no usable text
	ErrInvalidResponse = errors.New("provider returned invalid response")

	// ErrMissingAPIKey indicates credentials were not configured
	ErrMissingAPIKey = errors.New("api key not configured")
)

// defaultHTTPTimeout bounds a single provider call when no per-attempt
// timeout is configured.
const defaultHTTPTimeout = 2 * time.Minute

// NewProvider creates an LLM provider based on the configuration.
// The logger is used for debug and error messages.
// Returns an error if the provider type is unknown, credentials are missing,
// or initialization fails.
func NewProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	providerType := strings.ToLower(cfg.LLM.Provider)
	logger.Debug("creating llm provider", "type", providerType)

	// One pooled client per process, shared by every request.
	httpClient := &http.Client{Timeout: defaultHTTPTimeout}

	switch providerType {
	case "openai":
		return newOpenAIProvider(cfg, httpClient, logger)
	case "ollama":
		return newOllamaProvider(cfg, httpClient, logger)
	case "gemini":
		return newGeminiProvider(ctx, cfg, httpClient, logger)
	case "anthropic":
		return newAnthropicProvider(cfg, httpClient, logger)
	case "":
		return nil, errors.New("llm provider not specified in configuration")
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: openai, ollama, gemini, anthropic)", providerType)
	}
}
