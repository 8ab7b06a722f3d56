package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagwise/internal/textfeat"
)

func newScorer(t *testing.T, rules []LabelRule) *Scorer {
	t.Helper()
	rs, err := NewRuleSet(rules)
	require.NoError(t, err)
	return NewScorer(rs, textfeat.NewExtractor())
}

func defaultScorer(t *testing.T) *Scorer {
	return newScorer(t, DefaultRules())
}

func candidateLabels(candidates []Candidate) []string {
	labels := make([]string, 0, len(candidates))
	for _, c := range candidates {
		labels = append(labels, c.Label)
	}
	return labels
}

func TestScore_TechnicalPostWithMetrics(t *testing.T) {
	s := defaultScorer(t)

	text := "今天学习了机器学习算法,模型准确率提升了15%,数据很有说服力"
	candidates := s.Score(text)
	require.NotEmpty(t, candidates)
	labels := candidateLabels(candidates)

	assert.Equal(t, "研究/数据", candidates[0].Label, "data-heavy post should rank 研究/数据 first")
	assert.Contains(t, labels, "个人经历/成长")
	assert.NotContains(t, labels, "新闻/事件")
	assert.LessOrEqual(t, len(candidates), 3)

	for _, c := range candidates {
		assert.GreaterOrEqual(t, c.Confidence, 0.0)
		assert.LessOrEqual(t, c.Confidence, 1.0)
		assert.NotEmpty(t, c.MatchedFeatures)
	}
}

func TestDefaultRules_CasualExcludesTechnicalPosts(t *testing.T) {
	table := DefaultRules()
	var casual *LabelRule
	for i := range table {
		if table[i].Name == "闲聊/日常" {
			casual = &table[i]
			break
		}
	}
	require.NotNil(t, casual, "casual rule missing from default table")
	assert.Contains(t, casual.Features.ExcludeFeatures, textfeat.FeatureTechnical)

	// A data-heavy post opens with 今天 but must never read as casual.
	s := defaultScorer(t)
	labels := candidateLabels(s.Score("今天学习了机器学习算法,模型准确率提升了15%,数据很有说服力"))
	assert.NotContains(t, labels, "闲聊/日常")
}

func TestScore_TrivialGreetingMatchesNothing(t *testing.T) {
	s := defaultScorer(t)

	assert.Empty(t, s.Score("你好"))
}

func TestScore_Deterministic(t *testing.T) {
	s := defaultScorer(t)
	text := "今天学习了机器学习算法,模型准确率提升了15%,数据很有说服力"

	first := s.Score(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Score(text))
	}
}

func TestScoreRule_RequiredKeywordGates(t *testing.T) {
	s := newScorer(t, []LabelRule{{
		Name: "gated",
		Keywords: []Keyword{
			{Text: "docker", Required: true},
			{Text: "golang", Weight: 1.0},
		},
		MinScore: 0.5,
	}})

	assert.Empty(t, s.Score("golang tutorial"), "missing required keyword must zero the rule")
	assert.NotEmpty(t, s.Score("docker golang setup"))
}

func TestScoreRule_RequiredKeywordContributesNoWeight(t *testing.T) {
	// A rule whose only clause is a required keyword accumulates zero
	// weight, so it can never clear a positive MinScore.
	s := newScorer(t, []LabelRule{{
		Name:     "gate-only",
		Keywords: []Keyword{{Text: "docker", Required: true}},
		MinScore: 0.1,
	}})

	assert.Empty(t, s.Score("docker"))
}

func TestScoreRule_PatternWeights(t *testing.T) {
	s := newScorer(t, []LabelRule{{
		Name:     "pattern-only",
		Patterns: []Pattern{{Expr: `第[一二三]步`, Weight: 2.0, Description: "step"}},
		MinScore: 1.5,
	}})

	candidates := s.Score("第一步先装环境")
	require.Len(t, candidates, 1)
	assert.InDelta(t, 2.0, candidates[0].Score, 1e-9)
	assert.Contains(t, candidates[0].MatchedFeatures, "pattern:step")
}

func TestScoreRule_RequiredFeaturePenalty(t *testing.T) {
	rule := LabelRule{
		Name:     "needs-numbers",
		Keywords: []Keyword{{Text: "golang", Weight: 1.0}},
		Features: FeaturePredicates{RequiresNumbers: true},
		MinScore: 1.0,
	}
	s := newScorer(t, []LabelRule{rule})

	// golang alone scores ~1.39; halved to ~0.69 without numbers.
	assert.Empty(t, s.Score("golang rocks"))
	assert.NotEmpty(t, s.Score("golang rocks 100"))
}

func TestScoreRule_ExcludedFeaturePenalty(t *testing.T) {
	s := newScorer(t, []LabelRule{{
		Name:     "casual-only",
		Keywords: []Keyword{{Text: "golang", Weight: 1.0}},
		Features: FeaturePredicates{ExcludeFeatures: []string{textfeat.FeatureQuestion}},
		MinScore: 1.0,
	}})

	assert.NotEmpty(t, s.Score("golang rocks"))
	assert.Empty(t, s.Score("golang rocks?"), "excluded feature should cut the score to 30%")
}

func TestScoreRule_LengthBounds(t *testing.T) {
	s := newScorer(t, []LabelRule{{
		Name:     "short-form",
		Keywords: []Keyword{{Text: "golang", Weight: 1.0}},
		Features: FeaturePredicates{MaxLength: 10},
		MinScore: 1.2,
	}})

	assert.NotEmpty(t, s.Score("golang"))
	// over MaxLength the score drops by 20%, under the threshold here
	assert.Empty(t, s.Score("golang is a nice language for servers and tools"))
}

func TestResolveExclusions_HigherScoreWins(t *testing.T) {
	s := newScorer(t, []LabelRule{
		{
			Name:              "weak",
			Keywords:          []Keyword{{Text: "golang", Weight: 0.5}},
			MutuallyExclusive: []string{"strong"},
			MinScore:          0.3,
		},
		{
			Name:     "strong",
			Keywords: []Keyword{{Text: "golang", Weight: 2.0}},
			MinScore: 0.3,
		},
	})

	labels := candidateLabels(s.Score("golang"))
	assert.Contains(t, labels, "strong")
	assert.NotContains(t, labels, "weak")
}

func TestResolveExclusions_TieKeepsFirstScored(t *testing.T) {
	s := newScorer(t, []LabelRule{
		{
			Name:              "first",
			Keywords:          []Keyword{{Text: "golang", Weight: 1.0}},
			MutuallyExclusive: []string{"second"},
			MinScore:          0.3,
		},
		{
			Name:     "second",
			Keywords: []Keyword{{Text: "golang", Weight: 1.0}},
			MinScore: 0.3,
		},
	})

	labels := candidateLabels(s.Score("golang"))
	assert.Equal(t, []string{"first"}, labels)
}

func TestScore_CapsAtThreeCandidates(t *testing.T) {
	rules := []LabelRule{
		{Name: "a", Keywords: []Keyword{{Text: "golang", Weight: 1.0}}, MinScore: 0.3},
		{Name: "b", Keywords: []Keyword{{Text: "golang", Weight: 0.9}}, MinScore: 0.3},
		{Name: "c", Keywords: []Keyword{{Text: "golang", Weight: 0.8}}, MinScore: 0.3},
		{Name: "d", Keywords: []Keyword{{Text: "golang", Weight: 0.7}}, MinScore: 0.3},
	}
	s := newScorer(t, rules)

	candidates := s.Score("golang")
	require.Len(t, candidates, 3)
	assert.Equal(t, []string{"a", "b", "c"}, candidateLabels(candidates))
}

func TestMatchKeyword_BidirectionalContainment(t *testing.T) {
	s := defaultScorer(t)

	// 机器学习 in the text satisfies the 学习 clause of 个人经历/成长
	// only through substring containment.
	text := "我在机器学习上坚持了一年,终于入门了,这段经历值得分享,感悟很多"
	labels := candidateLabels(s.Score(text))
	assert.Contains(t, labels, "个人经历/成长")
}
