// Package anthropic sends chat requests to Claude through the official SDK.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bimmerbailey/dumpsong/internal/llm/llmerr"
)

// DefaultMaxTokens caps the completion when the config leaves it unset.
// Six to eight lines of lyrics fit comfortably.
const DefaultMaxTokens = 1024

// Config holds Anthropic-specific settings.
type Config struct {
	APIKey    string
	BaseURL   string
	MaxTokens int64
}

// ErrEmptyContent is returned when the reply has no non-blank text block.
var ErrEmptyContent = errors.New("anthropic: no text content in response")

// Message is one turn of the conversation. "system" turns are sent as the
// request's system prompt.
type Message struct {
	Role    string
	Content string
}

// Request is a single messages API call.
type Request struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Messages    []Message
}

// Response holds the first text block and token usage.
type Response struct {
	Content      string
	Model        string
	PromptTokens int
	TotalTokens  int
}

// Client wraps the SDK client. It is safe for concurrent use.
type Client struct {
	client    anthropic.Client
	maxTokens int64
	logger    *slog.Logger
}

// New creates a client. SDK-level retries are disabled; the lyrics
// generator owns the retry policy.
func New(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("anthropic api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSpace(cfg.BaseURL)))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &Client{
		client:    anthropic.NewClient(opts...),
		maxTokens: maxTokens,
		logger:    logger,
	}, nil
}

// Chat sends one messages request and returns the first text block.
func (c *Client) Chat(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(float64(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = int64(req.MaxTokens)
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case "assistant":
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(params.Messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	c.logger.Debug("sending chat request", "model", req.Model, "messages", len(req.Messages), "temperature", req.Temperature)

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyErr(err)
	}

	out := &Response{
		Model:        string(message.Model),
		PromptTokens: int(message.Usage.InputTokens),
		TotalTokens:  int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}
	for _, block := range message.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			out.Content = block.Text
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w (stop_reason %q)", ErrEmptyContent, message.StopReason)
}

func classifyErr(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return llmerr.FromStatus(apiErr.StatusCode, fmt.Errorf("anthropic: %w", err))
	}
	return fmt.Errorf("anthropic: %w", err)
}
