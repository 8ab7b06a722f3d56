package classifier

import (
	"context"
)

// HybridClassifier runs the cheap rule path first and falls back to
// the LLM only when the rules produce nothing. The LLM is never
// consulted to second-guess a confident rule match.
type HybridClassifier struct {
	rules Classifier
	llm   Classifier
}

func NewHybridClassifier(ruleClassifier, llmClassifier Classifier) *HybridClassifier {
	return &HybridClassifier{rules: ruleClassifier, llm: llmClassifier}
}

func (c *HybridClassifier) Classify(ctx context.Context, text string, vocab Vocabulary) (Result, error) {
	res, err := c.rules.Classify(ctx, text, vocab)
	if err != nil {
		return Result{}, err
	}
	if len(res.ContentTypes) > 0 || len(res.TopicTags) > 0 {
		return res, nil
	}
	return c.llm.Classify(ctx, text, vocab)
}

var _ Classifier = (*HybridClassifier)(nil)
