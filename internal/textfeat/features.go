package textfeat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentiment is a best-effort lexical partition of tokens. It is
// informational only and is never consulted by rule scoring.
type Sentiment struct {
	Positive []string
	Negative []string
	Neutral  []string
}

// FeatureSet holds the boolean text signals computed once per post and
// reused across all rules.
type FeatureSet struct {
	HasQuestion       bool
	HasExclamation    bool
	HasNumbers        bool
	HasEnglish        bool
	HasTechnicalTerms bool
	HasLink           bool
	HasMention        bool
	HasHashtag        bool
	Length            int
	Sentiment         Sentiment
}

// Feature names accepted by rule exclusion predicates.
const (
	FeatureQuestion    = "question"
	FeatureExclamation = "exclamation"
	FeatureNumbers     = "numbers"
	FeatureEnglish     = "english"
	FeatureTechnical   = "technical"
	FeatureLink        = "link"
	FeatureMention     = "mention"
	FeatureHashtag     = "hashtag"
)

// Has reports whether the named feature is present. Unknown names are
// simply absent.
func (f FeatureSet) Has(name string) bool {
	switch name {
	case FeatureQuestion:
		return f.HasQuestion
	case FeatureExclamation:
		return f.HasExclamation
	case FeatureNumbers:
		return f.HasNumbers
	case FeatureEnglish:
		return f.HasEnglish
	case FeatureTechnical:
		return f.HasTechnicalTerms
	case FeatureLink:
		return f.HasLink
	case FeatureMention:
		return f.HasMention
	case FeatureHashtag:
		return f.HasHashtag
	}
	return false
}

var questionParticles = []string{"吗", "呢", "么"}

// AnalyzeFeatures derives the FeatureSet for text. Flags are computed
// against the raw input where the signal would be destroyed by
// preprocessing (links, punctuation), and against the token stream
// otherwise.
func (e *Extractor) AnalyzeFeatures(text string) FeatureSet {
	fs := FeatureSet{
		HasLink:    urlPattern.MatchString(text),
		HasMention: mentionPattern.MatchString(text),
		HasHashtag: hashtagPattern.MatchString(text),
		Length:     utf8.RuneCountInString(strings.TrimSpace(text)),
	}

	fs.HasQuestion = strings.ContainsAny(text, "?？") || endsInQuestionParticle(text)
	fs.HasExclamation = strings.ContainsAny(text, "!！")
	for _, r := range text {
		if unicode.IsDigit(r) {
			fs.HasNumbers = true
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			fs.HasEnglish = true
		}
	}

	for _, tok := range e.Tokenize(text) {
		word := tok.Word
		if domainDict[word] || domainDict[strings.ToLower(word)] {
			fs.HasTechnicalTerms = true
		}
		switch {
		case positiveWords[word]:
			fs.Sentiment.Positive = append(fs.Sentiment.Positive, word)
		case negativeWords[word]:
			fs.Sentiment.Negative = append(fs.Sentiment.Negative, word)
		default:
			fs.Sentiment.Neutral = append(fs.Sentiment.Neutral, word)
		}
	}
	return fs
}

func endsInQuestionParticle(text string) bool {
	trimmed := strings.TrimRightFunc(strings.TrimSpace(text), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	for _, p := range questionParticles {
		if strings.HasSuffix(trimmed, p) {
			return true
		}
	}
	return false
}
