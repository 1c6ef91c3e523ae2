// Package gemini sends chat requests to Google Gemini through the genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bimmerbailey/dumpsong/internal/llm/llmerr"
	"google.golang.org/genai"
)

type Config struct {
	APIKey string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string
}

// ErrEmptyContent is returned when the response carries no text.
var ErrEmptyContent = errors.New("gemini: response has no text")

// Message is one turn of the conversation. "system" turns become the
// request's system instruction.
type Message struct {
	Role    string
	Content string
}

type Request struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Messages    []Message
}

type Response struct {
	Content      string
	Model        string
	PromptTokens int
	TotalTokens  int
}

type Client struct {
	client *genai.Client
	logger *slog.Logger
}

func New(ctx context.Context, cfg Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	cc := &genai.ClientConfig{
		APIKey:     strings.TrimSpace(cfg.APIKey),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, logger: logger}, nil
}

func (c *Client) Chat(ctx context.Context, req Request) (*Response, error) {
	system, contents := splitMessages(req.Messages)
	if len(contents) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	genCfg := &genai.GenerateContentConfig{
		CandidateCount: 1,
		Temperature:    genai.Ptr(req.Temperature),
	}
	if system != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	c.logger.Debug("sending chat request", "model", req.Model, "messages", len(req.Messages), "temperature", req.Temperature)

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, contents, genCfg)
	if err != nil {
		return nil, classifyErr(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyContent
	}

	out := &Response{Content: text, Model: req.Model}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if resp.UsageMetadata != nil {
		out.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return out, nil
}

// splitMessages pulls system turns into one instruction string and converts
// the rest into genai contents.
func splitMessages(messages []Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			system = append(system, m.Content)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}

func classifyErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return llmerr.FromStatus(apiErr.Code, fmt.Errorf("gemini: %w", err))
	}
	return fmt.Errorf("gemini: %w", err)
}
