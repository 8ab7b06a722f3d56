package textfeat

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is one segmented unit of input text. Tokens are ephemeral:
// they are produced per classification call and never persisted.
type Token struct {
	Word   string
	POS    PartOfSpeech
	Weight float64
}

// Sentinel placeholders substituted during preprocessing. They are
// stripped from the token stream but still drive FeatureSet flags.
const (
	sentinelLink    = "__LINK__"
	sentinelMention = "__MENTION__"
	sentinelHashtag = "__HASHTAG__"
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	mentionPattern = regexp.MustCompile(`@[\p{Han}\w.-]+`)
	hashtagPattern = regexp.MustCompile(`#[^#\s]+#?`)

	exclaimRuns    = regexp.MustCompile(`[!！]{2,}`)
	questionRuns   = regexp.MustCompile(`[?？]{2,}`)
	ellipsisRuns   = regexp.MustCompile(`[.。]{3,}|…+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)

	// numeric, percentage and multiplier forms ("25", "3.5%", "10倍", "5w")
	numericPattern = regexp.MustCompile(`^\d+(\.\d+)?(%|％|倍|万|亿|[kKwWxX])?$`)
)

// Extractor tokenizes raw post text and derives linguistic features.
// The zero value is not usable; construct with NewExtractor.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// preprocess normalizes raw text before segmentation. The order is
// load-bearing: sentinel substitution must happen before punctuation
// and whitespace collapsing so link fragments never reach the
// tokenizer as ordinary words.
func (e *Extractor) preprocess(text string) string {
	text = urlPattern.ReplaceAllString(text, " "+sentinelLink+" ")
	text = mentionPattern.ReplaceAllString(text, " "+sentinelMention+" ")
	text = hashtagPattern.ReplaceAllString(text, " "+sentinelHashtag+" ")
	text = exclaimRuns.ReplaceAllString(text, "!")
	text = questionRuns.ReplaceAllString(text, "?")
	text = ellipsisRuns.ReplaceAllString(text, "...")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokenize segments text into weighted, POS-tagged tokens. Stop words
// and sentinel placeholders are removed from the result. Empty or
// whitespace-only input yields an empty slice, not an error.
func (e *Extractor) Tokenize(text string) []Token {
	cleaned := e.preprocess(text)
	if cleaned == "" {
		return []Token{}
	}

	var tokens []Token
	runes := []rune(cleaned)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isLatinRune(r):
			j := i
			for j < len(runes) && isLatinRune(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if tok, ok := e.makeToken(word); ok {
				tokens = append(tokens, tok)
			}
			i = j
		case unicode.Is(unicode.Han, r):
			word, consumed := segmentCJK(runes[i:])
			if tok, ok := e.makeToken(word); ok {
				tokens = append(tokens, tok)
			}
			i += consumed
		default:
			// punctuation and symbols act as boundaries only
			i++
		}
	}
	if tokens == nil {
		return []Token{}
	}
	return tokens
}

// segmentCJK returns the longest lexicon match at the head of the run,
// falling back to a single character. It reports the rune count
// consumed.
func segmentCJK(runes []rune) (string, int) {
	max := maxLexiconWordLen
	if len(runes) < max {
		max = len(runes)
	}
	for n := max; n >= 2; n-- {
		if !unicode.Is(unicode.Han, runes[n-1]) {
			continue
		}
		candidate := string(runes[:n])
		if _, ok := lexicon[candidate]; ok {
			return candidate, n
		}
	}
	return string(runes[:1]), 1
}

func (e *Extractor) makeToken(word string) (Token, bool) {
	if word == sentinelLink || word == sentinelMention || word == sentinelHashtag {
		return Token{}, false
	}
	lower := strings.ToLower(word)
	if stopWords[word] || stopWords[lower] {
		return Token{}, false
	}
	pos := tagPOS(word)
	return Token{Word: word, POS: pos, Weight: tokenWeight(word, pos)}, true
}

func tagPOS(word string) PartOfSpeech {
	if pos, ok := lexicon[word]; ok {
		return pos
	}
	r, size := utf8.DecodeRuneInString(word)
	if size == len(word) && unicode.Is(unicode.Han, r) {
		if pos, ok := singleCharPOS[r]; ok {
			return pos
		}
		return POSOther
	}
	if numericPattern.MatchString(word) {
		return POSNumeral
	}
	if isLatinWord(word) {
		return POSEnglish
	}
	return POSOther
}

// tokenWeight implements the fixed salience formula. Components are
// additive and the result is floored at 0.1; downstream scoring relies
// on the monotonic direction of every term here.
func tokenWeight(word string, pos PartOfSpeech) float64 {
	w := 1.0
	if domainDict[word] || domainDict[strings.ToLower(word)] {
		w += 0.5
	}
	switch pos {
	case POSNoun:
		w += 0.3
	case POSVerb:
		w += 0.2
	case POSAdjective:
		w += 0.2
	case POSAdverb:
		w += 0.1
	}
	n := utf8.RuneCountInString(word)
	if n >= 3 {
		w += 0.2
	} else if n == 1 {
		w -= 0.2
	}
	if isLatinWord(word) && n > 2 {
		w += 0.3
	}
	if numericPattern.MatchString(word) {
		w += 0.4
	}
	return math.Max(w, 0.1)
}

func isLatinRune(r rune) bool {
	return r == '_' || r == '-' || r == '%' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isLatinWord(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}
