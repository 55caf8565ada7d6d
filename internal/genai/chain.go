// Provider chain with retry and failover.
package genai

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/datara-labs/datara-bot/internal/errors"
	"github.com/datara-labs/datara-bot/internal/logger"
	"github.com/datara-labs/datara-bot/internal/metrics"
)

// Chain tries each completer in order. Within a provider, transient
// errors are retried with backoff; permanent errors and exhausted
// retries move on to the next provider.
type Chain struct {
	completers []Completer
	retry      RetryConfig
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// NewChain creates a provider chain. metrics may be nil.
func NewChain(completers []Completer, retry RetryConfig, log *logger.Logger, m *metrics.Metrics) *Chain {
	return &Chain{
		completers: completers,
		retry:      retry,
		log:        log.WithModule("genai"),
		metrics:    m,
	}
}

// Enabled reports whether at least one provider is configured.
func (c *Chain) Enabled() bool {
	return c != nil && len(c.completers) > 0
}

// Complete runs the prompt through the chain. purpose labels the call
// for metrics ("fallback", "tone", "summary").
func (c *Chain) Complete(ctx context.Context, purpose, prompt string, opts Options) (string, error) {
	if !c.Enabled() {
		return "", apperrors.ErrNoProvider
	}

	var lastErr error
	for _, completer := range c.completers {
		provider := completer.Provider()
		start := time.Now()

		var result string
		err := WithRetry(ctx, c.retry, func() error {
			var completeErr error
			result, completeErr = completer.Complete(ctx, prompt, opts)
			return completeErr
		})

		if err == nil {
			c.recordCompletion(string(provider), purpose, "success", start)
			return result, nil
		}
		lastErr = err

		c.recordCompletion(string(provider), purpose, "error", start)

		if ctx.Err() != nil {
			break
		}

		c.log.WithError(err).WithFields(map[string]any{
			"provider": string(provider),
			"purpose":  purpose,
			"action":   ClassifyError(err).String(),
		}).Warn("provider failed, trying next in chain")
	}

	lastProvider := string(c.completers[len(c.completers)-1].Provider())
	return "", apperrors.NewCompletionError(lastProvider, fmt.Errorf("all providers failed: %w", lastErr))
}

// Close closes every completer in the chain.
func (c *Chain) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for _, completer := range c.completers {
		if err := completer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (c *Chain) recordCompletion(provider, purpose, status string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordCompletion(provider, purpose, status, time.Since(start).Seconds())
	}
}
