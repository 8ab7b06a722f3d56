package classifier

import "context"

// Vocabulary is the caller-supplied set of allowed labels. Every label
// in a Result is drawn from it; classifiers are never allowed to
// invent taxonomy.
type Vocabulary struct {
	TopicLabels       []string
	ContentTypeLabels []string
}

// Result is the final decision for one post.
type Result struct {
	IsLowValue   bool
	TopicTags    []string
	ContentTypes []string
}

// Classifier assigns labels from the vocabulary to a post text.
type Classifier interface {
	Classify(ctx context.Context, text string, vocab Vocabulary) (Result, error)
}

// Progress carries running counts reported by ClassifyMany after each
// item. An unparseable completion yields a neutral result rather than
// an item failure, so it is tallied under ParseFailures instead of
// Succeeded.
type Progress struct {
	Processed     int
	Succeeded     int
	Failed        int
	ParseFailures int
	LowValue      int
}

// filterVocabulary keeps only labels that case-insensitively match an
// allowed entry, returning the vocabulary's canonical casing. This is
// the trust boundary between model output and the stored taxonomy.
func filterVocabulary(labels, allowed []string) []string {
	if len(labels) == 0 {
		return nil
	}
	canonical := make(map[string]string, len(allowed))
	for _, a := range allowed {
		canonical[foldLabel(a)] = a
	}
	var kept []string
	seen := make(map[string]bool)
	for _, l := range labels {
		if c, ok := canonical[foldLabel(l)]; ok && !seen[c] {
			kept = append(kept, c)
			seen[c] = true
		}
	}
	return kept
}
