// Package llm provides a unified interface for the chat models that write
// the songs.
//
// # Overview
//
// [Provider] abstracts OpenAI-compatible endpoints, Ollama, Gemini and
// Anthropic behind one Chat call. Provider subpackages define their own
// request types to avoid import cycles; this package adapts them.
//
//	┌──────────────┐
//	│ llm package  │  ← Provider interface, NewProvider factory, adapters
//	└──────┬───────┘
//	       │
//	       ├──────────────┬──────────────┬────────────────┐
//	┌──────▼──────┐ ┌─────▼──────┐ ┌─────▼──────┐ ┌───────▼───────┐
//	│ llm/openai  │ │ llm/ollama │ │ llm/gemini │ │ llm/anthropic │
//	└─────────────┘ └────────────┘ └────────────┘ └───────────────┘
//	       all classify failures through llm/llmerr
//
// # Usage
//
//	provider, err := llm.NewProvider(ctx, cfg, logger)
//	if err != nil {
//	    return err // unknown provider or missing credentials
//	}
//
//	resp, err := provider.Chat(ctx, []llm.Message{
//	    {Role: llm.RoleSystem, Content: "You write concise, catchy parody corporate songs."},
//	    {Role: llm.RoleUser, Content: prompt},
//	}, &llm.ChatOptions{Model: "gpt-4o-mini", Temperature: 0.8})
//
// # Error Handling
//
// Rate limiting (HTTP 429) and server-side failures (5xx) come back wrapped
// in [llmerr.TransientError]; check with [llmerr.IsTransient]. Everything
// else is fatal, timeouts included. A reply with no usable text wraps
// [ErrInvalidResponse]. Providers never retry on their own: the retry policy
// lives in internal/lyrics.
//
// # Credentials
//
// API keys come from config (llm.<provider>.api_key) or the provider's usual
// environment variable (OPENAI_API_KEY, GEMINI_API_KEY, ANTHROPIC_API_KEY).
// A missing key fails [NewProvider], so it surfaces at startup rather than
// per request.
//
// # Thread Safety
//
// All Provider implementations are safe for concurrent use. NewProvider
// builds one pooled *http.Client that every request shares.
package llm
