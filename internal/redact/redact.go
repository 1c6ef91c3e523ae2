// Package redact removes credentials from log lines and error messages
// before they leave the process.
package redact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Redactor replaces sensitive values with correlation-preserving
// placeholders. It holds no per-value state and is safe for concurrent use.
//
// The same value always maps to the same placeholder, so two log lines that
// mention the same leaked key can still be matched up.
type Redactor struct {
	enabled  bool
	patterns []Pattern
}

// New creates a Redactor with the named patterns. An empty or fully unknown
// name list falls back to [DefaultPatterns]. If enabled is false, Redact
// returns text unchanged.
func New(enabled bool, patternNames []string) *Redactor {
	patterns := GetPatterns(patternNames)
	if len(patterns) == 0 {
		patterns = GetPatterns(DefaultPatterns())
	}

	return &Redactor{
		enabled:  enabled,
		patterns: patterns,
	}
}

// Redact scans the text for sensitive patterns and replaces them with
// placeholders.
//
// Example:
//
//	"401: invalid key sk-abcdefghijklmnopqrstu" → "401: invalid key [OPENAI_KEY:a3f2]"
//
// A nil Redactor returns text unchanged.
func (r *Redactor) Redact(text string) string {
	if r == nil || !r.enabled || len(r.patterns) == 0 {
		return text
	}

	result := text
	for _, pattern := range r.patterns {
		result = pattern.Regex.ReplaceAllStringFunc(result, func(match string) string {
			return placeholder(match, pattern.Type)
		})
	}
	return result
}

// Error returns the redacted text of err, or "" for a nil error.
func (r *Redactor) Error(err error) string {
	if err == nil {
		return ""
	}
	return r.Redact(err.Error())
}

// IsEnabled returns whether redaction is enabled.
func (r *Redactor) IsEnabled() bool {
	return r != nil && r.enabled
}

// placeholder derives the placeholder from the value's hash.
func placeholder(value, patternType string) string {
	return fmt.Sprintf("[%s:%s]", patternType, hashValue(value))
}

// hashValue returns the first 4 hex characters of the value's SHA256.
func hashValue(value string) string {
	h := sha256.Sum256([]byte(value))
	return hex.EncodeToString(h[:2])
}
