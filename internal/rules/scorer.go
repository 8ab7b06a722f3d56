package rules

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tagwise/internal/textfeat"
)

// maxCandidates caps the number of labels a single post may receive
// from the rule path.
const maxCandidates = 3

// Candidate is a scored label proposal for one post.
type Candidate struct {
	Label           string
	Category        string
	Score           float64
	Confidence      float64
	MatchedFeatures []string
	Reason          string
}

// Scorer evaluates a rule set against post text. Scoring is fully
// deterministic: it depends only on the text and the rule table.
type Scorer struct {
	rules     *RuleSet
	extractor *textfeat.Extractor
}

func NewScorer(rs *RuleSet, ex *textfeat.Extractor) *Scorer {
	return &Scorer{rules: rs, extractor: ex}
}

// Score returns up to three unique label candidates, highest score
// first, after mutual-exclusion resolution.
func (s *Scorer) Score(text string) []Candidate {
	keywords := s.extractor.ExtractKeywords(text, 20)
	features := s.extractor.AnalyzeFeatures(text)

	var candidates []Candidate
	for _, rule := range s.rules.Rules() {
		if cand, ok := s.scoreRule(rule, text, keywords, features); ok {
			candidates = append(candidates, cand)
		}
	}

	candidates = resolveExclusions(s.rules, candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

// scoreRule applies one rule. The stages run in a fixed order:
// required-keyword gate, keyword accumulation, pattern accumulation,
// then multiplicative feature adjustments.
func (s *Scorer) scoreRule(rule LabelRule, text string, keywords []textfeat.Keyword, features textfeat.FeatureSet) (Candidate, bool) {
	var matched []string
	score := 0.0

	for _, kw := range rule.Keywords {
		hit, ok := matchKeyword(kw.Text, keywords)
		if kw.Required {
			// hard gate: a missing required keyword zeroes the rule,
			// and a present one contributes no weight of its own
			if !ok {
				return Candidate{}, false
			}
			matched = append(matched, "required-keyword:"+kw.Text)
			continue
		}
		if ok {
			score += kw.Weight * hit.Weight
			matched = append(matched, "keyword:"+kw.Text)
		}
	}

	for _, p := range rule.Patterns {
		if p.re.MatchString(text) {
			score += p.Weight
			matched = append(matched, "pattern:"+p.Description)
		}
	}

	score = applyFeatureAdjustments(score, rule.Features, features, &matched)

	if score < rule.MinScore {
		return Candidate{}, false
	}

	confidence := math.Min(score/(rule.MinScore*2), 1.0)
	return Candidate{
		Label:           rule.Name,
		Category:        rule.Category,
		Score:           score,
		Confidence:      confidence,
		MatchedFeatures: matched,
		Reason:          fmt.Sprintf("matched %s", strings.Join(matched, ", ")),
	}, true
}

// matchKeyword uses substring containment in either direction rather
// than exact equality, so "机器学习" satisfies a "学习" clause and vice
// versa.
func matchKeyword(keyword string, extracted []textfeat.Keyword) (textfeat.Keyword, bool) {
	for _, k := range extracted {
		if strings.Contains(k.Word, keyword) || strings.Contains(keyword, k.Word) {
			return k, true
		}
	}
	return textfeat.Keyword{}, false
}

// applyFeatureAdjustments multiplies the score through the rule's
// feature predicates. Order matters: required-feature penalties, then
// exclusions, then length bounds.
func applyFeatureAdjustments(score float64, pred FeaturePredicates, features textfeat.FeatureSet, matched *[]string) float64 {
	if pred.RequiresNumbers && !features.HasNumbers {
		score *= 0.5
	}
	if pred.RequiresQuestion && !features.HasQuestion {
		score *= 0.5
	}
	if pred.RequiresExclamation && !features.HasExclamation {
		score *= 0.5
	}
	for _, name := range pred.ExcludeFeatures {
		if features.Has(name) {
			score *= 0.3
			*matched = append(*matched, "excluded-feature:"+name)
		}
	}
	if pred.MinLength > 0 && features.Length < pred.MinLength {
		score *= 0.7
	}
	if pred.MaxLength > 0 && features.Length > pred.MaxLength {
		score *= 0.8
	}
	return score
}

// resolveExclusions keeps the higher-scoring candidate of every
// declared mutually-exclusive pair. Ties keep the candidate that was
// scored first. Resolution runs once, after all rules have final
// scores.
func resolveExclusions(rs *RuleSet, candidates []Candidate) []Candidate {
	index := make(map[string]int, len(candidates))
	for i, c := range candidates {
		index[c.Label] = i
	}
	dropped := make(map[string]bool)

	for _, rule := range rs.Rules() {
		i, ok := index[rule.Name]
		if !ok || dropped[rule.Name] {
			continue
		}
		for _, other := range rule.MutuallyExclusive {
			j, ok := index[other]
			if !ok || dropped[other] {
				continue
			}
			if candidates[j].Score > candidates[i].Score {
				dropped[rule.Name] = true
			} else if candidates[i].Score > candidates[j].Score {
				dropped[other] = true
			} else if i < j {
				dropped[other] = true
			} else {
				dropped[rule.Name] = true
			}
			if dropped[rule.Name] {
				break
			}
		}
	}

	kept := candidates[:0]
	for _, c := range candidates {
		if !dropped[c.Label] {
			kept = append(kept, c)
		}
	}
	return kept
}
