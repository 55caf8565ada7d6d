// Prompt construction and the tone-rewrite quality gate.
package genai

import (
	"strings"

	apperrors "github.com/datara-labs/datara-bot/internal/errors"
	"github.com/datara-labs/datara-bot/internal/memory"
)

// ApologyText is sent when every provider fails on a fallback reply.
const ApologyText = "Sorry, I couldn't come up with an answer right now. Please try again in a moment. 🙏"

const (
	tonePromptPrefix    = "Rewrite this politely in one simple sentence:\n\n"
	summaryPromptPrefix = "Summarize this conversation in about 3 lines, keeping facts the user shared:\n\n"
)

// minRewriteLength is the quality-gate floor. Anything shorter is
// considered a degenerate rewrite and discarded.
const minRewriteLength = 5

// rewriteDenylist rejects hedging and meta phrases that indicate the
// model rewrote the instruction instead of the answer.
var rewriteDenylist = []string{
	"i am an ai",
	"could you",
	"no context",
}

// FallbackPrompt builds the prompt for a free-form reply: the stored
// summary (if any), the buffered transcript, then the raw query.
func FallbackPrompt(conv memory.Conversation, rawQuery string) string {
	var b strings.Builder
	if conv.Summary != "" {
		b.WriteString("Summary: ")
		b.WriteString(conv.Summary)
		b.WriteString("\n")
	}
	for _, line := range conv.TranscriptLines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(rawQuery)
	return b.String()
}

// TonePrompt builds the politeness-rewrite prompt.
func TonePrompt(text string) string {
	return tonePromptPrefix + text
}

// SummaryPrompt builds the compaction prompt from a transcript.
func SummaryPrompt(conv memory.Conversation) string {
	return summaryPromptPrefix + conv.Transcript()
}

// checkRewrite applies the quality gate to a tone rewrite, returning
// ErrLowQualityRewrite when the rewrite should be discarded.
func checkRewrite(rewrite string) error {
	if len(rewrite) < minRewriteLength {
		return apperrors.ErrLowQualityRewrite
	}
	lowered := strings.ToLower(rewrite)
	for _, phrase := range rewriteDenylist {
		if strings.Contains(lowered, phrase) {
			return apperrors.ErrLowQualityRewrite
		}
	}
	return nil
}
