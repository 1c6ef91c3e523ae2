package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/bimmerbailey/dumpsong/internal/llm/llmerr"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestNew verifies provider creation with various configurations.
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid config with host",
			config: Config{Host: "http://localhost:11434", Model: "llama3.2"},
		},
		{
			name:   "empty model uses default",
			config: Config{Host: "http://localhost:11434"},
		},
		{
			name:    "invalid host URL",
			config:  Config{Host: "://invalid-url"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := New(tt.config, nil, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && provider.config.Model == "" {
				t.Error("Model should have default value")
			}
		})
	}
}

// TestNewNilLogger verifies that nil logger is rejected.
func TestNewNilLogger(t *testing.T) {
	_, err := New(Config{Host: "http://localhost:11434"}, nil, nil)
	if err == nil {
		t.Error("New() should reject nil logger")
	}
}

// TestChat verifies the Chat method with a mock Ollama server.
func TestChat(t *testing.T) {
	var gotTemperature float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if opts, ok := req["options"].(map[string]interface{}); ok {
			gotTemperature, _ = opts["temperature"].(float64)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model":             req["model"],
			"message":           map[string]string{"role": "assistant", "content": "We wish you synergy"},
			"done":              true,
			"prompt_eval_count": 10,
			"eval_count":        20,
		})
	}))
	defer server.Close()

	provider, err := New(Config{Host: server.URL, Model: "test-model"}, server.Client(), testLogger())
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Chat(context.Background(), []Message{
		{Role: "system", Content: "You write songs."},
		{Role: "user", Content: "Hello"},
	}, &ChatOptions{Temperature: 0.5})
	if err != nil {
		t.Fatalf("Chat() failed: %v", err)
	}

	if resp.Content != "We wish you synergy" {
		t.Errorf("Chat() content = %q", resp.Content)
	}
	if resp.Model != "test-model" {
		t.Errorf("Chat() model = %q, want %q", resp.Model, "test-model")
	}
	if resp.TokensTotal != 30 {
		t.Errorf("Chat() TokensTotal = %d, want 30", resp.TokensTotal)
	}
	if gotTemperature != 0.5 {
		t.Errorf("server saw temperature %v, want 0.5", gotTemperature)
	}
}

// TestChatStatusErrors verifies retryable and fatal status mapping.
func TestChatStatusErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantTransient bool
	}{
		{"too many requests", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, true},
		{"model not found", http.StatusNotFound, false},
		{"bad request", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
			}))
			defer server.Close()

			provider, err := New(Config{Host: server.URL}, server.Client(), testLogger())
			if err != nil {
				t.Fatalf("Failed to create provider: %v", err)
			}

			_, err = provider.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil)
			if err == nil {
				t.Fatal("Chat() expected error")
			}
			if llmerr.IsTransient(err) != tt.wantTransient {
				t.Errorf("IsTransient(%v) = %v, want %v", err, !tt.wantTransient, tt.wantTransient)
			}
		})
	}
}

// TestChatEmptyMessages verifies that Chat rejects empty message list.
func TestChatEmptyMessages(t *testing.T) {
	provider, err := New(Config{Host: "http://localhost:11434"}, nil, testLogger())
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Chat(context.Background(), []Message{}, nil)
	if err == nil {
		t.Error("Chat() should reject empty messages")
	}
}

// TestChatCanceled verifies that a canceled context is not reported as transient.
func TestChatCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	provider, err := New(Config{Host: server.URL}, server.Client(), testLogger())
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = provider.Chat(ctx, []Message{{Role: "user", Content: "hi"}}, nil)
	if !errors.Is(err, ErrContextCanceled) {
		t.Errorf("Chat() error = %v, want ErrContextCanceled", err)
	}
	if llmerr.IsTransient(err) {
		t.Error("canceled request should not be transient")
	}
}

// TestHeartbeat verifies the Heartbeat method.
func TestHeartbeat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Ollama is running"))
	}))
	defer server.Close()

	provider, err := New(Config{Host: server.URL}, server.Client(), testLogger())
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if err := provider.Heartbeat(context.Background()); err != nil {
		t.Errorf("Heartbeat() should succeed, got error: %v", err)
	}
}
