package classify

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Titan-M/mailsift/pkg/types"
)

// Classifier runs the two-stage classification pipeline: an external
// category/priority backend followed by an external summarizer, each with
// its own local fallback. Classify never fails: the caller always receives
// a result whose category and priority come from the closed enum sets.
type Classifier struct {
	backend    CategoryBackend
	summarizer Summarizer
}

func NewClassifier(backend CategoryBackend, summarizer Summarizer) *Classifier {
	return &Classifier{
		backend:    backend,
		summarizer: summarizer,
	}
}

// Classify returns an authoritative classification when both backends
// cooperate, and degrades to the keyword heuristic otherwise.
func (c *Classifier) Classify(ctx context.Context, subject, body, sender string) types.ClassificationResult {
	category, priority, err := c.backend.ClassifyEmail(ctx, subject, body, sender)
	if err != nil {
		log.Warn().Err(err).Msg("classification backend failed, using keyword fallback")
		return types.ClassificationResult{
			Category: FallbackCategory(subject, body),
			Priority: FallbackPriority(subject, body),
			Summary:  fallbackSummary(sender, subject),
		}
	}

	summary, err := c.summarizer.Summarize(ctx, subject, body, sender)
	if err != nil {
		log.Warn().Err(err).Msg("summarization failed, using deterministic summary")
		summary = summaryOnlyFallback(sender, subject, body)
	}

	return types.ClassificationResult{
		Category: category,
		Priority: priority,
		Summary:  summary,
	}
}
