package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/datara-labs/datara-bot/internal/config"
	"github.com/datara-labs/datara-bot/internal/ctxutil"
	apperrors "github.com/datara-labs/datara-bot/internal/errors"
	"github.com/datara-labs/datara-bot/internal/fuzzy"
	"github.com/datara-labs/datara-bot/internal/genai"
	"github.com/datara-labs/datara-bot/internal/index"
	"github.com/datara-labs/datara-bot/internal/logger"
	"github.com/datara-labs/datara-bot/internal/memory"
	"github.com/datara-labs/datara-bot/internal/metrics"
	"github.com/datara-labs/datara-bot/internal/ratelimit"
	"github.com/datara-labs/datara-bot/internal/stringutil"
)

// User-visible fixed texts.
const (
	UnavailableText = "😔 I'm having trouble reaching my knowledge base right now. Please try again shortly."
	RateLimitedText = "⏳ You're sending messages a bit fast. Give me a few seconds and try again."
)

// fuzzyWordGate is the maximum query word count for suggestions.
// Longer queries skip suggestions and go straight to the AI fallback.
const fuzzyWordGate = 3

// Router decides how each incoming message is answered.
type Router struct {
	index      *index.Index
	responder  *genai.Responder
	memory     *memory.Store
	userLimit  *ratelimit.PerKeyLimiter
	llmLimit   *ratelimit.PerKeyLimiter
	log        *logger.Logger
	metrics    *metrics.Metrics
	toneEnable bool
}

// Config wires the router's collaborators. UserLimit, LLMLimit and
// Metrics may be nil.
type Config struct {
	Index       *index.Index
	Responder   *genai.Responder
	Memory      *memory.Store
	UserLimit   *ratelimit.PerKeyLimiter
	LLMLimit    *ratelimit.PerKeyLimiter
	Metrics     *metrics.Metrics
	ToneEnabled bool
}

// New creates a router.
func New(cfg Config, log *logger.Logger) *Router {
	return &Router{
		index:      cfg.Index,
		responder:  cfg.Responder,
		memory:     cfg.Memory,
		userLimit:  cfg.UserLimit,
		llmLimit:   cfg.LLMLimit,
		log:        log.WithModule("router"),
		metrics:    cfg.Metrics,
		toneEnable: cfg.ToneEnabled,
	}
}

// HandleMessage runs the pipeline for one text message and returns the
// actions to execute in order. Every text query produces at least one
// action; the pipeline never drops a message silently.
func (r *Router) HandleMessage(ctx context.Context, userID int64, rawText string) []Action {
	if r.userLimit != nil && !r.userLimit.Allow(userKey(userID)) {
		return []Action{SendText{Text: RateLimitedText}}
	}

	normalized := stringutil.Normalize(rawText)

	if reply, ok := casualReplies[normalized]; ok {
		r.recordResolution("casual")
		return []Action{SendText{Text: reply}}
	}

	snap := r.index.Snapshot()
	if snap.Empty() {
		r.log.WithError(apperrors.ErrEmptySnapshot).Warn("cannot resolve query, snapshot not loaded")
		r.recordResolution("unavailable")
		return []Action{SendText{Text: UnavailableText}}
	}

	result := Resolve(normalized, snap)
	switch result.Kind {
	case InfoMatch:
		r.recordResolution("info")
		return r.infoActions(ctx, userID, rawText, result.Infos)

	case DocumentMatch:
		r.recordResolution("document")
		return documentActions(result.Documents)
	}

	if stringutil.WordCount(normalized) <= fuzzyWordGate {
		suggestions := fuzzy.Suggest(normalized, snap.Keywords(), fuzzy.DefaultLimit, fuzzy.DefaultCutoff)
		if len(suggestions) > 0 {
			r.recordResolution("suggestions")
			return []Action{SendText{Text: suggestionText(suggestions)}}
		}
	}

	r.recordResolution("fallback")
	return r.fallbackActions(ctx, userID, rawText)
}

// infoActions formats matched info records, polishes the joined text
// through the tone adapter, and records the exchange in memory.
func (r *Router) infoActions(ctx context.Context, userID int64, rawText string, hits []InfoHit) []Action {
	titler := cases.Title(language.English)
	parts := make([]string, 0, len(hits))
	for _, hit := range hits {
		parts = append(parts, fmt.Sprintf("📘 *%s*: %s", titler.String(hit.Keyword), hit.Answer))
	}
	text := strings.Join(parts, "\n\n")

	if r.toneEnable && r.allowLLM(userID) {
		text = r.responder.AdaptTone(ctx, text)
	}

	if r.memory != nil {
		r.memory.Record(userID, memory.RoleUser, rawText)
		r.memory.Record(userID, memory.RoleBot, text)
	}

	return []Action{SendText{Text: text, Markdown: true}}
}

// documentActions emits a progress line and a document send per hit.
func documentActions(hits []DocumentHit) []Action {
	titler := cases.Title(language.English)
	actions := make([]Action, 0, 2*len(hits))
	for _, hit := range hits {
		actions = append(actions,
			SendText{Text: fmt.Sprintf("📎 Fetching %s PDF...", titler.String(hit.Keyword))},
			SendDocument{Keyword: hit.Keyword, FileURL: hit.FileURL},
		)
	}
	return actions
}

// fallbackActions answers through the LLM with conversational context.
func (r *Router) fallbackActions(ctx context.Context, userID int64, rawText string) []Action {
	if !r.allowLLM(userID) {
		return []Action{SendText{Text: genai.ApologyText}}
	}

	var conv memory.Conversation
	if r.memory != nil {
		conv = r.memory.Snapshot(userID)
	}

	reply := r.responder.Fallback(ctx, conv, rawText)

	if r.memory != nil {
		r.memory.Record(userID, memory.RoleUser, rawText)
		r.memory.Record(userID, memory.RoleBot, reply)
		r.maybeCompact(ctx, userID)
	}

	return []Action{SendText{Text: reply}}
}

// maybeCompact summarizes the user's log asynchronously once it reaches
// the threshold. Failure is swallowed; the next turn retries on the
// larger log.
func (r *Router) maybeCompact(ctx context.Context, userID int64) {
	if !r.memory.NeedsCompaction(userID) || !r.responder.Enabled() {
		return
	}

	// Detached context so compaction survives the originating update.
	bgCtx := ctxutil.PreserveTracing(ctx)

	go func() {
		compactCtx, cancel := context.WithTimeout(bgCtx, config.SummarizeTimeout)
		defer cancel()

		conv := r.memory.Snapshot(userID)
		summary, err := r.responder.Summarize(compactCtx, conv)
		if err != nil {
			r.recordCompaction("error")
			r.log.WithError(err).WithField("user_id", userID).Warn("memory compaction failed, keeping log")
			return
		}

		r.memory.Compact(userID, summary)
		r.recordCompaction("success")
	}()
}

func (r *Router) allowLLM(userID int64) bool {
	if !r.responder.Enabled() {
		return false
	}
	if r.llmLimit == nil {
		return true
	}
	return r.llmLimit.Allow(userKey(userID))
}

func suggestionText(suggestions []string) string {
	return "🤔 I couldn't find that. Did you mean:\n• " + strings.Join(suggestions, "\n• ")
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (r *Router) recordResolution(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordResolution(outcome)
	}
}

func (r *Router) recordCompaction(status string) {
	if r.metrics != nil {
		r.metrics.RecordMemoryCompaction(status)
	}
}
