// Package openai talks to OpenAI-compatible chat completion endpoints.
//
// Note: To avoid import cycles, this package defines its own request and
// response types. The parent llm package adapts them to llm.Provider.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	gogpt "github.com/sashabaranov/go-openai"

	"github.com/bimmerbailey/dumpsong/internal/llm/llmerr"
)

// DefaultBaseURL is the public OpenAI API.
const DefaultBaseURL = "https://api.openai.com/v1"

// ErrEmptyContent is returned when the first choice carries no text.
var ErrEmptyContent = errors.New("openai: response content is empty")

// Config holds OpenAI-specific configuration.
type Config struct {
	APIKey  string
	BaseURL string
	OrgID   string
}

// Message represents a single message in a conversation.
type Message struct {
	Role    string
	Content string
}

// Request is a chat completion request.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Response is the subset of a chat completion response we read.
type Response struct {
	Content      string
	Model        string
	PromptTokens int
	TotalTokens  int
}

// Client sends chat completion requests. It is safe for concurrent use.
type Client struct {
	client  *gogpt.Client
	logger  *slog.Logger
	baseURL string
}

// New creates a client. httpClient is shared across requests so the
// connection pool is reused. The SDK never retries on its own.
func New(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	sdkConfig := gogpt.DefaultConfig(apiKey)
	sdkConfig.BaseURL = baseURL
	sdkConfig.OrgID = cfg.OrgID
	sdkConfig.HTTPClient = httpClient

	return &Client{
		client:  gogpt.NewClientWithConfig(sdkConfig),
		logger:  logger,
		baseURL: baseURL,
	}, nil
}

// Chat sends one chat completion request. Rate limiting and server errors
// come back as *llmerr.TransientError.
func (c *Client) Chat(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	sdkReq := gogpt.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages:    make([]gogpt.ChatCompletionMessage, len(req.Messages)),
	}
	for i, m := range req.Messages {
		sdkReq.Messages[i] = gogpt.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	c.logger.Debug("sending chat request", "model", req.Model, "messages", len(req.Messages), "temperature", req.Temperature)

	resp, err := c.client.CreateChatCompletion(ctx, sdkReq)
	if err != nil {
		c.logger.Debug("chat request failed", "model", req.Model, "error", err)
		return nil, classifyErr(err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: response has no choices")
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w (finish_reason %q)", ErrEmptyContent, resp.Choices[0].FinishReason)
	}

	out := &Response{
		Content:      content,
		Model:        resp.Model,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
	c.logger.Debug("chat request completed", "model", out.Model, "total_tokens", out.TotalTokens)
	return out, nil
}

// classifyErr maps SDK errors onto the retry taxonomy. A JSON error body
// yields *APIError; anything else the server sent yields *RequestError.
func classifyErr(err error) error {
	var apiErr *gogpt.APIError
	if errors.As(err, &apiErr) {
		return llmerr.FromStatus(apiErr.HTTPStatusCode, fmt.Errorf("openai: %w", err))
	}
	var reqErr *gogpt.RequestError
	if errors.As(err, &reqErr) {
		return llmerr.FromStatus(reqErr.HTTPStatusCode, fmt.Errorf("openai: status %d: %w", reqErr.HTTPStatusCode, err))
	}
	return fmt.Errorf("openai: %w", err)
}
