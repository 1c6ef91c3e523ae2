// Package lyrics asks a chat model for a song about an employee and retries
// transient failures with exponential backoff.
//
// One call to [Generator.Generate] makes at most Config.MaxRetries attempts.
// Attempt n (1-based) that fails transiently is followed by a sleep of
// BackoffInitial * 2^(n-1) before attempt n+1. There is no jitter; the delay
// saturates at the largest time.Duration instead of wrapping. Fatal errors,
// including a per-attempt timeout, end the sequence immediately.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bimmerbailey/dumpsong/internal/config"
	"github.com/bimmerbailey/dumpsong/internal/employee"
	"github.com/bimmerbailey/dumpsong/internal/llm"
	"github.com/bimmerbailey/dumpsong/internal/llm/llmerr"
	"github.com/bimmerbailey/dumpsong/internal/prompt"
)

// ErrRetriesExhausted wraps the last transient error once every attempt has
// been used.
var ErrRetriesExhausted = errors.New("lyrics: retries exhausted")

// Config controls a Generator.
type Config struct {
	Model       string
	Temperature float32

	// MaxRetries is the total number of attempts. Values below 1 are treated as 1.
	MaxRetries int

	// Timeout bounds a single attempt. Zero means no per-attempt limit.
	Timeout time.Duration

	// BackoffInitial is the first sleep; it doubles after every retry.
	BackoffInitial time.Duration

	// RateLimitRPS caps attempts per second across all callers. Zero disables.
	RateLimitRPS float64
}

// FromConfig maps the llm section of the application config onto a Config.
func FromConfig(c config.LLMConfig) Config {
	return Config{
		Model:          c.Model,
		Temperature:    c.Temperature,
		MaxRetries:     c.MaxRetries,
		Timeout:        c.Timeout,
		BackoffInitial: c.BackoffInitial,
		RateLimitRPS:   c.RateLimitRPS,
	}
}

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Generator.
type Option func(*Generator)

// WithSleep replaces the backoff sleep. Tests use it to record durations
// without waiting.
func WithSleep(fn SleepFunc) Option {
	return func(g *Generator) {
		if fn != nil {
			g.sleep = fn
		}
	}
}

// Generator produces lyrics. It is safe for concurrent use.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
	limiter  *rate.Limiter
	sleep    SleepFunc
}

// New creates a Generator backed by provider.
func New(provider llm.Provider, cfg Config, logger *slog.Logger, opts ...Option) *Generator {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = config.DefaultBackoffInitial
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Generator{
		provider: provider,
		config:   cfg,
		logger:   logger,
		sleep:    sleepContext,
	}
	if cfg.RateLimitRPS > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the prompt for info and returns the model's lyrics with
// surrounding whitespace trimmed.
//
// Prompt errors (prompt.ErrMissingField) are returned before any provider
// call. Transient failures are retried; once MaxRetries attempts have failed
// the last error is returned wrapped in ErrRetriesExhausted. If ctx ends, its
// error is returned as-is.
func (g *Generator) Generate(ctx context.Context, info employee.Info) (string, error) {
	messages, err := prompt.Messages(info)
	if err != nil {
		return "", err
	}

	opts := &llm.ChatOptions{
		Model:       g.config.Model,
		Temperature: g.config.Temperature,
	}

	backoff := g.config.BackoffInitial
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		resp, err := g.attempt(ctx, messages, opts)
		if err == nil {
			lyrics := strings.TrimSpace(resp.Content)
			g.logger.Info("generated lyrics",
				"employee", info.Name,
				"department", info.Department,
				"attempts", attempt,
				"model", resp.Model,
				"lyrics", lyrics,
			)
			return lyrics, nil
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !llmerr.IsTransient(err) {
			g.logger.Error("lyrics generation failed", "attempt", attempt, "error", err)
			return "", err
		}
		if attempt >= g.config.MaxRetries {
			g.logger.Error("lyrics generation retries exhausted", "attempts", attempt, "error", err)
			return "", fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, err)
		}

		g.logger.Warn("transient provider error, retrying",
			"attempt", attempt,
			"max_retries", g.config.MaxRetries,
			"backoff", backoff,
			"error", err,
		)
		if err := g.sleep(ctx, backoff); err != nil {
			return "", err
		}
		backoff = nextBackoff(backoff)
	}
}

// nextBackoff doubles d, saturating instead of overflowing.
func nextBackoff(d time.Duration) time.Duration {
	if d > math.MaxInt64/2 {
		return math.MaxInt64
	}
	return d * 2
}

func (g *Generator) attempt(ctx context.Context, messages []llm.Message, opts *llm.ChatOptions) (*llm.Response, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}
	return g.provider.Chat(ctx, messages, opts)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
