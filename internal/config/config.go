// Package config provides configuration types and helpers for dumpsong.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds the application-wide configuration.
type Config struct {
	Format    string          `mapstructure:"format"`
	Color     string          `mapstructure:"color"` // auto, always, never
	Verbose   bool            `mapstructure:"verbose"`
	LogFormat string          `mapstructure:"log_format"`
	LogLevel  string          `mapstructure:"log_level"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Server    ServerConfig    `mapstructure:"server"`
	Redaction RedactionConfig `mapstructure:"redaction"`
}

// LLMConfig holds configuration for the lyrics provider and retry policy.
type LLMConfig struct {
	// Provider selects which LLM to use: "openai", "ollama", "gemini", "anthropic"
	Provider string `mapstructure:"provider"`

	// Global settings applied to all providers
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`

	// Retry policy around each generation request
	MaxRetries     int           `mapstructure:"max_retries"`
	Timeout        time.Duration `mapstructure:"timeout"`         // per attempt, 0 = none
	BackoffInitial time.Duration `mapstructure:"backoff_initial"` // first sleep, doubled after each retry
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`  // global, 0 disables

	// Provider-specific configuration
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
}

// OpenAIConfig holds settings for OpenAI-compatible chat completion endpoints.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`  // Optional: read from OPENAI_API_KEY if empty
	BaseURL string `mapstructure:"base_url"` // Optional: for compatible endpoints
	OrgID   string `mapstructure:"org_id"`   // Optional: organization ID
}

// OllamaConfig holds Ollama-specific settings.
type OllamaConfig struct {
	Host string `mapstructure:"host"` // API endpoint
}

// GeminiConfig holds Google Gemini settings.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`  // Optional: read from GEMINI_API_KEY if empty
	BaseURL string `mapstructure:"base_url"` // Optional: proxies/testing
}

// AnthropicConfig holds Anthropic/Claude-specific settings.
type AnthropicConfig struct {
	APIKey    string `mapstructure:"api_key"` // Optional: read from ANTHROPIC_API_KEY if empty
	BaseURL   string `mapstructure:"base_url"`
	MaxTokens int64  `mapstructure:"max_tokens"`
}

// ServerConfig holds settings for the HTTP endpoint.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"` // bounds the whole retry sequence
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`

	// VideoPlaceholderURL is returned until a real video renderer exists.
	VideoPlaceholderURL string `mapstructure:"video_placeholder_url"`
}

// RedactionConfig holds configuration for secret redaction in logs and
// failure responses.
type RedactionConfig struct {
	// Enabled controls whether redaction is active
	Enabled bool `mapstructure:"enabled"`

	// Patterns specifies which redaction patterns to use
	// Available: bearer, api_key, openai_key, anthropic_key, google_key, jwt, email
	Patterns []string `mapstructure:"patterns"`
}

// Default values shared by the viper defaults and Validate.
const (
	DefaultProvider            = "openai"
	DefaultModel               = "gpt-4o-mini"
	DefaultTemperature         = 0.8
	DefaultMaxRetries          = 3
	DefaultBackoffInitial      = time.Second
	DefaultAddr                = ":5000"
	DefaultVideoPlaceholderURL = "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerEscapes.mp4"
)

// DefaultModels is the model used per provider when llm.model is unset.
var DefaultModels = map[string]string{
	"openai":    DefaultModel,
	"ollama":    "llama3.2",
	"gemini":    "gemini-2.0-flash",
	"anthropic": "claude-3-5-haiku-latest",
}

// ApplyProviderDefaults fills llm.model from DefaultModels when it is empty.
func (c *Config) ApplyProviderDefaults() {
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModels[strings.ToLower(c.LLM.Provider)]
	}
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

var knownProviders = []string{"openai", "ollama", "gemini", "anthropic"}

// Validate checks values that would otherwise fail later, per request.
func (c *Config) Validate() error {
	provider := strings.ToLower(c.LLM.Provider)
	known := false
	for _, p := range knownProviders {
		if provider == p {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown llm provider %q (supported: %s)",
			ErrInvalidConfig, c.LLM.Provider, strings.Join(knownProviders, ", "))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm.temperature %.2f out of range [0, 2]", ErrInvalidConfig, c.LLM.Temperature)
	}
	if c.LLM.MaxRetries < 1 {
		return fmt.Errorf("%w: llm.max_retries must be at least 1, got %d", ErrInvalidConfig, c.LLM.MaxRetries)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("%w: llm.timeout must not be negative", ErrInvalidConfig)
	}
	if c.LLM.RateLimitRPS < 0 {
		return fmt.Errorf("%w: llm.rate_limit_rps must not be negative", ErrInvalidConfig)
	}
	return nil
}
