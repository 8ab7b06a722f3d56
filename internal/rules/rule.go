package rules

import (
	"fmt"
	"regexp"

	"tagwise/internal/models"
)

// Keyword is a weighted keyword clause of a rule. Required keywords
// gate the whole rule: if absent the rule scores exactly zero.
type Keyword struct {
	Text     string
	Weight   float64
	Required bool
}

// Pattern is a weighted regular-expression clause matched against the
// raw post text.
type Pattern struct {
	Expr        string
	Weight      float64
	Description string

	re *regexp.Regexp
}

// FeaturePredicates adjust a rule score based on the post's FeatureSet.
// All adjustments are multiplicative and applied in a fixed order, so
// they compound.
type FeaturePredicates struct {
	RequiresNumbers     bool
	RequiresQuestion    bool
	RequiresExclamation bool
	MinLength           int
	MaxLength           int
	ExcludeFeatures     []string
}

// LabelRule is one static classification rule. Rules are immutable
// after NewRuleSet validates them.
type LabelRule struct {
	Name              string
	Category          string
	Keywords          []Keyword
	Patterns          []Pattern
	Features          FeaturePredicates
	MutuallyExclusive []string
	MinScore          float64
}

// RuleSet is a validated, compiled collection of label rules.
type RuleSet struct {
	rules []LabelRule
}

// NewRuleSet validates every rule and compiles its patterns. Rules
// with an empty name, a non-positive MinScore, a duplicate name, or an
// invalid pattern are rejected here rather than at scoring time.
func NewRuleSet(rules []LabelRule) (*RuleSet, error) {
	seen := make(map[string]bool, len(rules))
	compiled := make([]LabelRule, len(rules))
	for i, rule := range rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("rule %d: empty name: %w", i, models.ErrValidation)
		}
		if rule.MinScore <= 0 {
			return nil, fmt.Errorf("rule %q: min score must be positive: %w", rule.Name, models.ErrValidation)
		}
		if seen[rule.Name] {
			return nil, fmt.Errorf("rule %q: duplicate name: %w", rule.Name, models.ErrValidation)
		}
		seen[rule.Name] = true

		patterns := make([]Pattern, len(rule.Patterns))
		for j, p := range rule.Patterns {
			re, err := regexp.Compile(p.Expr)
			if err != nil {
				return nil, fmt.Errorf("rule %q: pattern %q: %w", rule.Name, p.Expr, err)
			}
			p.re = re
			patterns[j] = p
		}
		rule.Patterns = patterns
		compiled[i] = rule
	}
	return &RuleSet{rules: compiled}, nil
}

// Rules returns the rules in declaration order.
func (rs *RuleSet) Rules() []LabelRule {
	return rs.rules
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}
