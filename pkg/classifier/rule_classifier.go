package classifier

import (
	"context"

	"tagwise/internal/rules"
)

// RuleClassifier adapts the deterministic rule scorer to the
// Classifier contract. Rules only propose content types; topic tags
// are left to the LLM path.
type RuleClassifier struct {
	scorer *rules.Scorer
}

func NewRuleClassifier(scorer *rules.Scorer) *RuleClassifier {
	return &RuleClassifier{scorer: scorer}
}

func (c *RuleClassifier) Classify(ctx context.Context, text string, vocab Vocabulary) (Result, error) {
	candidates := c.scorer.Score(text)
	labels := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		labels = append(labels, cand.Label)
	}
	return Result{
		ContentTypes: filterVocabulary(labels, vocab.ContentTypeLabels),
	}, nil
}

// Candidates exposes the full scored candidate list for callers that
// want scores and reasons, not just labels.
func (c *RuleClassifier) Candidates(text string) []rules.Candidate {
	return c.scorer.Score(text)
}

var _ Classifier = (*RuleClassifier)(nil)
