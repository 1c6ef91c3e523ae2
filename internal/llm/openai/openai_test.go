package openai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/bimmerbailey/dumpsong/internal/llm/llmerr"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNew(t *testing.T) {
	if _, err := New(Config{APIKey: "sk-test"}, nil, nil); err == nil {
		t.Error("New() should reject nil logger")
	}
	if _, err := New(Config{}, nil, testLogger()); err == nil {
		t.Error("New() should reject empty api key")
	}
	c, err := New(Config{APIKey: "sk-test"}, nil, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
}

// wireRequest is the JSON body the chat completions endpoint receives.
type wireRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func TestChat(t *testing.T) {
	var got wireRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			http.Error(w, "bad auth "+auth, http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": got.Model,
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  Synergy!  "}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "total_tokens": 30},
		})
	}))
	defer server.Close()

	c, err := New(Config{APIKey: "sk-test", BaseURL: server.URL + "/"}, server.Client(), testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := c.Chat(context.Background(), Request{
		Model:       "gpt-4o-mini",
		Temperature: 0.8,
		MaxTokens:   256,
		Messages: []Message{
			{Role: "system", Content: "sys"},
			{Role: "user", Content: "prompt"},
		},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if resp.Content != "  Synergy!  " {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Model != "gpt-4o-mini" || resp.PromptTokens != 10 || resp.TotalTokens != 30 {
		t.Errorf("unexpected response metadata: %+v", resp)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "prompt" {
		t.Errorf("server received unexpected messages: %+v", got.Messages)
	}
	if got.Temperature != 0.8 {
		t.Errorf("server received temperature %v, want 0.8", got.Temperature)
	}
	if got.MaxTokens != 256 {
		t.Errorf("server received max_tokens %d, want 256", got.MaxTokens)
	}
}

func TestChat_OrganizationHeader(t *testing.T) {
	var org string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		org = r.Header.Get("OpenAI-Organization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"m","choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	c, err := New(Config{APIKey: "sk-test", BaseURL: server.URL, OrgID: "org-42"}, server.Client(), testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := c.Chat(context.Background(), Request{Messages: []Message{{Role: "user", Content: "hi"}}}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if org != "org-42" {
		t.Errorf("OpenAI-Organization = %q, want %q", org, "org-42")
	}
}

func TestChat_StatusClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantTransient bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"internal error", http.StatusInternalServerError, true},
		{"unavailable", http.StatusServiceUnavailable, true},
		{"bad request", http.StatusBadRequest, false},
		{"unauthorized", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"nope","type":"test_error"}}`))
			}))
			defer server.Close()

			c, err := New(Config{APIKey: "sk-test", BaseURL: server.URL}, server.Client(), testLogger())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			_, err = c.Chat(context.Background(), Request{
				Model:    "gpt-4o-mini",
				Messages: []Message{{Role: "user", Content: "hi"}},
			})
			if err == nil {
				t.Fatal("Chat() expected error")
			}
			if llmerr.IsTransient(err) != tt.wantTransient {
				t.Errorf("IsTransient(%v) = %v, want %v", err, !tt.wantTransient, tt.wantTransient)
			}
			if !strings.Contains(err.Error(), "nope") {
				t.Errorf("error should carry response body, got %v", err)
			}
			if calls != 1 {
				t.Errorf("server saw %d calls, SDK must not retry", calls)
			}
		})
	}
}

func TestChat_NonJSONErrorBody(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantTransient bool
	}{
		{"bad gateway", http.StatusBadGateway, true},
		{"forbidden", http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "<html>upstream</html>", tt.status)
			}))
			defer server.Close()

			c, _ := New(Config{APIKey: "sk-test", BaseURL: server.URL}, server.Client(), testLogger())
			_, err := c.Chat(context.Background(), Request{Messages: []Message{{Role: "user", Content: "hi"}}})
			if err == nil {
				t.Fatal("Chat() expected error")
			}
			if llmerr.IsTransient(err) != tt.wantTransient {
				t.Errorf("IsTransient(%v) = %v, want %v", err, !tt.wantTransient, tt.wantTransient)
			}
		})
	}
}

func TestChat_EmptyContent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null content", `{"model":"m","choices":[{"message":{"role":"assistant","content":null}}]}`},
		{"missing content", `{"model":"m","choices":[{"message":{"role":"assistant"},"finish_reason":"length"}]}`},
		{"blank content", `{"model":"m","choices":[{"message":{"role":"assistant","content":"  \n "}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, _ := New(Config{APIKey: "sk-test", BaseURL: server.URL}, server.Client(), testLogger())
			resp, err := c.Chat(context.Background(), Request{Messages: []Message{{Role: "user", Content: "hi"}}})
			if !errors.Is(err, ErrEmptyContent) {
				t.Fatalf("Chat() = %+v, %v; want ErrEmptyContent", resp, err)
			}
			if llmerr.IsTransient(err) {
				t.Error("empty content should not be retried")
			}
		})
	}
}

func TestChat_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"m","choices":[]}`))
	}))
	defer server.Close()

	c, _ := New(Config{APIKey: "sk-test", BaseURL: server.URL}, server.Client(), testLogger())
	_, err := c.Chat(context.Background(), Request{Messages: []Message{{Role: "user", Content: "hi"}}})
	if err == nil {
		t.Fatal("Chat() expected error for empty choices")
	}
	if llmerr.IsTransient(err) {
		t.Error("empty choices should not be retried")
	}
}

func TestChat_EmptyMessages(t *testing.T) {
	c, _ := New(Config{APIKey: "sk-test"}, nil, testLogger())
	if _, err := c.Chat(context.Background(), Request{}); err == nil {
		t.Error("Chat() should reject empty messages")
	}
}
