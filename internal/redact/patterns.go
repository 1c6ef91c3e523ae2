package redact

import (
	"regexp"
)

// Pattern defines a built-in pattern for secret detection.
type Pattern struct {
	Name        string
	Regex       *regexp.Regexp
	Type        string // Used for placeholder prefix: [BEARER:hash], [EMAIL:hash], etc.
	Description string
}

// Built-in patterns for credentials that can leak into provider error
// messages and request logs.
var (
	// Authorization headers: Bearer sk-abc123...
	bearerRegex = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]{8,}`)

	// Generic key/value secrets: api_key=..., "token": "...", password: ...
	apiKeyRegex = regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|token|secret|password|passwd|pwd)["\s]*[:=]["\s]*[a-zA-Z0-9_\-]{8,}`)

	// OpenAI keys: sk-..., sk-proj-...
	openAIKeyRegex = regexp.MustCompile(`\bsk-(?:proj-)?[A-Za-z0-9_-]{16,}`)

	// Anthropic keys: sk-ant-api03-...
	anthropicKeyRegex = regexp.MustCompile(`\bsk-ant-[A-Za-z0-9_-]{16,}`)

	// Google API keys: AIzaSy...
	googleKeyRegex = regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{35}\b`)

	// JWT tokens: eyJhbGciOiJIUzI1NiIs...
	jwtRegex = regexp.MustCompile(`\beyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*\b`)

	// Email addresses: user@example.com
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// BuiltInPatterns contains all available patterns, selectable by name via
// the redaction.patterns config key.
var BuiltInPatterns = map[string]Pattern{
	"bearer": {
		Name:        "bearer",
		Regex:       bearerRegex,
		Type:        "BEARER",
		Description: "Bearer tokens in Authorization headers",
	},
	"api_key": {
		Name:        "api_key",
		Regex:       apiKeyRegex,
		Type:        "SECRET",
		Description: "API keys and tokens in key/value form",
	},
	"openai_key": {
		Name:        "openai_key",
		Regex:       openAIKeyRegex,
		Type:        "OPENAI_KEY",
		Description: "OpenAI API keys",
	},
	"anthropic_key": {
		Name:        "anthropic_key",
		Regex:       anthropicKeyRegex,
		Type:        "ANTHROPIC_KEY",
		Description: "Anthropic API keys",
	},
	"google_key": {
		Name:        "google_key",
		Regex:       googleKeyRegex,
		Type:        "GOOGLE_KEY",
		Description: "Google API keys",
	},
	"jwt": {
		Name:        "jwt",
		Regex:       jwtRegex,
		Type:        "JWT",
		Description: "JWT tokens",
	},
	"email": {
		Name:        "email",
		Regex:       emailRegex,
		Type:        "EMAIL",
		Description: "Email addresses",
	},
}

// DefaultPatterns returns the patterns enabled when none are configured.
// Order matters: bearer headers and Anthropic keys must be replaced before
// the broader OpenAI key pattern sees them.
func DefaultPatterns() []string {
	return []string{
		"bearer",
		"anthropic_key",
		"openai_key",
		"google_key",
		"api_key",
		"jwt",
	}
}

// GetPatterns returns the patterns matching the given names, in order.
// Unknown pattern names are silently ignored.
func GetPatterns(names []string) []Pattern {
	patterns := make([]Pattern, 0, len(names))
	for _, name := range names {
		if pattern, ok := BuiltInPatterns[name]; ok {
			patterns = append(patterns, pattern)
		}
	}
	return patterns
}
