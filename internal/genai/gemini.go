// Gemini implementation of the Completer interface.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/datara-labs/datara-bot/internal/logger"
)

type geminiCompleter struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// NewGeminiCompleter creates a Gemini-backed completer.
func NewGeminiCompleter(ctx context.Context, apiKey, model string, log *logger.Logger) (Completer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiCompleter{
		client: client,
		model:  model,
		log:    log.WithModule("genai.gemini"),
	}, nil
}

func (c *geminiCompleter) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens: int32(opts.MaxTokens),
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	duration := time.Since(start)

	if err != nil {
		c.log.WithError(err).WithFields(map[string]any{
			"model":       c.model,
			"duration_ms": duration.Milliseconds(),
		}).Warn("completion request failed")
		return "", WrapError(err, ProviderGemini, 0)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", WrapError(errors.New("empty response from model"), ProviderGemini, 0)
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			out.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", WrapError(errors.New("no text in response"), ProviderGemini, 0)
	}

	if resp.UsageMetadata != nil {
		c.log.WithFields(map[string]any{
			"model":         c.model,
			"input_tokens":  resp.UsageMetadata.PromptTokenCount,
			"output_tokens": resp.UsageMetadata.CandidatesTokenCount,
			"duration_ms":   duration.Milliseconds(),
		}).Debug("completion finished")
	}

	return text, nil
}

func (c *geminiCompleter) Provider() Provider {
	return ProviderGemini
}

func (c *geminiCompleter) Close() error {
	// genai.Client does not require explicit cleanup in the current SDK
	return nil
}
