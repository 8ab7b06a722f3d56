package textfeat

import (
	"math"
	"sort"
)

// Keyword is one ranked entry from ExtractKeywords.
type Keyword struct {
	Word   string
	Weight float64
	POS    PartOfSpeech
}

// ExtractKeywords ranks the distinct tokens of text by a composite of
// salience and repetition: tokenWeight × log(count+1). Frequency alone
// can therefore never dominate a low-salience word. Returns at most
// topK entries, highest composite first; ties order by word so the
// ranking is deterministic.
func (e *Extractor) ExtractKeywords(text string, topK int) []Keyword {
	tokens := e.Tokenize(text)
	if len(tokens) == 0 || topK <= 0 {
		return []Keyword{}
	}

	type agg struct {
		count  int
		weight float64
		pos    PartOfSpeech
	}
	byWord := make(map[string]*agg, len(tokens))
	for _, tok := range tokens {
		if a, ok := byWord[tok.Word]; ok {
			a.count++
		} else {
			byWord[tok.Word] = &agg{count: 1, weight: tok.Weight, pos: tok.POS}
		}
	}

	keywords := make([]Keyword, 0, len(byWord))
	for word, a := range byWord {
		composite := a.weight * math.Log(float64(a.count)+1)
		keywords = append(keywords, Keyword{Word: word, Weight: composite, POS: a.pos})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Weight != keywords[j].Weight {
			return keywords[i].Weight > keywords[j].Weight
		}
		return keywords[i].Word < keywords[j].Word
	})

	if len(keywords) > topK {
		keywords = keywords[:topK]
	}
	return keywords
}
