// Responder ties the provider chain to the conversational features:
// fallback replies, tone polishing, and memory compaction.
package genai

import (
	"context"

	apperrors "github.com/datara-labs/datara-bot/internal/errors"
	"github.com/datara-labs/datara-bot/internal/logger"
	"github.com/datara-labs/datara-bot/internal/memory"
	"github.com/datara-labs/datara-bot/internal/metrics"
)

// Completion tuning per purpose. The fallback reply gets room to answer;
// tone rewrites and summaries are deliberately short.
var (
	fallbackOptions = Options{Temperature: 0.7, MaxTokens: 1024}
	toneOptions     = Options{Temperature: 0.3, MaxTokens: 256}
	summaryOptions  = Options{Temperature: 0.3, MaxTokens: 256}
)

// Responder produces conversational replies through the provider chain.
type Responder struct {
	chain   *Chain
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewResponder creates a responder. metrics may be nil.
func NewResponder(chain *Chain, log *logger.Logger, m *metrics.Metrics) *Responder {
	return &Responder{
		chain:   chain,
		log:     log.WithModule("responder"),
		metrics: m,
	}
}

// Enabled reports whether a provider chain is available.
func (r *Responder) Enabled() bool {
	return r != nil && r.chain.Enabled()
}

// Fallback generates a free-form reply for a query that matched nothing.
// On any provider failure the fixed apology is returned instead; the
// user always gets a textual reply.
func (r *Responder) Fallback(ctx context.Context, conv memory.Conversation, rawQuery string) string {
	if !r.Enabled() {
		return ApologyText
	}

	prompt := FallbackPrompt(conv, rawQuery)
	reply, err := r.chain.Complete(ctx, "fallback", prompt, fallbackOptions)
	if err != nil {
		r.log.WithError(err).Warn("fallback completion failed, sending apology")
		return ApologyText
	}
	return reply
}

// AdaptTone rewrites text into one polite sentence. If the rewrite call
// fails or the result trips the quality gate, the original text is
// returned unchanged.
func (r *Responder) AdaptTone(ctx context.Context, text string) string {
	if !r.Enabled() || text == "" {
		return text
	}

	rewrite, err := r.chain.Complete(ctx, "tone", TonePrompt(text), toneOptions)
	if err != nil {
		r.log.WithError(err).Debug("tone rewrite failed, keeping original")
		return text
	}

	if err := checkRewrite(rewrite); err != nil {
		if r.metrics != nil {
			r.metrics.RecordToneRewriteRejection()
		}
		r.log.WithError(err).WithField("rewrite_length", len(rewrite)).Debug("tone rewrite rejected, keeping original")
		return text
	}

	return rewrite
}

// Summarize compacts a conversation transcript into a short summary.
// A failed call returns the error so the caller can skip compaction and
// retry on the next turn with the larger log.
func (r *Responder) Summarize(ctx context.Context, conv memory.Conversation) (string, error) {
	if !r.Enabled() {
		return "", apperrors.ErrNoProvider
	}
	return r.chain.Complete(ctx, "summary", SummaryPrompt(conv), summaryOptions)
}
