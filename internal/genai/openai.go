// OpenAI-compatible implementation of the Completer interface.
// Works with Groq and any other provider exposing the OpenAI chat API.
package genai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/datara-labs/datara-bot/internal/logger"
)

type openaiCompleter struct {
	client   openai.Client
	model    string
	provider Provider
	log      *logger.Logger
}

// NewGroqCompleter creates a Groq-backed completer via the OpenAI-compatible API.
func NewGroqCompleter(apiKey, model string, log *logger.Logger) (Completer, error) {
	if model == "" {
		model = DefaultGroqModel
	}
	return newOpenAICompleter(ProviderGroq, GroqBaseURL, apiKey, model, log)
}

func newOpenAICompleter(provider Provider, baseURL, apiKey, model string, log *logger.Logger) (Completer, error) {
	if apiKey == "" {
		return nil, errors.New("api key is empty")
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &openaiCompleter{
		client:   client,
		model:    model,
		provider: provider,
		log:      log.WithModule("genai." + string(provider)),
	}, nil
}

func (c *openaiCompleter) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(opts.Temperature),
		MaxTokens:   openai.Int(opts.MaxTokens),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		c.log.WithError(err).WithFields(map[string]any{
			"model":       c.model,
			"duration_ms": duration.Milliseconds(),
		}).Warn("completion request failed")
		return "", WrapError(err, c.provider, 0)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", WrapError(errors.New("empty response from model"), c.provider, 0)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", WrapError(errors.New("no text in response"), c.provider, 0)
	}

	if resp.Usage.TotalTokens > 0 {
		c.log.WithFields(map[string]any{
			"model":         c.model,
			"input_tokens":  resp.Usage.PromptTokens,
			"output_tokens": resp.Usage.CompletionTokens,
			"duration_ms":   duration.Milliseconds(),
		}).Debug("completion finished")
	}

	return text, nil
}

func (c *openaiCompleter) Provider() Provider {
	return c.provider
}

func (c *openaiCompleter) Close() error {
	// openai-go client doesn't require cleanup
	return nil
}
