// Factory wiring providers from configuration.
package genai

import (
	"context"

	"github.com/datara-labs/datara-bot/internal/config"
	"github.com/datara-labs/datara-bot/internal/logger"
	"github.com/datara-labs/datara-bot/internal/metrics"
)

// NewChainFromConfig builds the provider chain ordered by the configured
// primary and fallback providers. Providers without an API key are
// skipped; an empty chain is valid and means AI features are disabled.
func NewChainFromConfig(ctx context.Context, cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*Chain, error) {
	var completers []Completer

	order := []string{cfg.LLMPrimaryProvider, cfg.LLMFallbackProvider}
	seen := make(map[string]bool, len(order))

	for _, name := range order {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		switch Provider(name) {
		case ProviderGemini:
			if cfg.GeminiAPIKey == "" {
				continue
			}
			completer, err := NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
			if err != nil {
				return nil, err
			}
			completers = append(completers, completer)

		case ProviderGroq:
			if cfg.GroqAPIKey == "" {
				continue
			}
			completer, err := NewGroqCompleter(cfg.GroqAPIKey, cfg.GroqModel, log)
			if err != nil {
				return nil, err
			}
			completers = append(completers, completer)

		default:
			log.WithField("provider", name).Warn("unknown provider in configuration, skipping")
		}
	}

	return NewChain(completers, DefaultRetryConfig(), log, m), nil
}
