package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagwise/internal/models"
)

func TestNewRuleSet_Valid(t *testing.T) {
	rs, err := NewRuleSet(DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultRules()), rs.Len())
}

func TestNewRuleSet_RejectsEmptyName(t *testing.T) {
	_, err := NewRuleSet([]LabelRule{{Name: "", MinScore: 1.0}})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestNewRuleSet_RejectsNonPositiveMinScore(t *testing.T) {
	_, err := NewRuleSet([]LabelRule{{Name: "x", MinScore: 0}})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestNewRuleSet_RejectsDuplicateName(t *testing.T) {
	_, err := NewRuleSet([]LabelRule{
		{Name: "x", MinScore: 1.0},
		{Name: "x", MinScore: 1.0},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestNewRuleSet_RejectsInvalidPattern(t *testing.T) {
	_, err := NewRuleSet([]LabelRule{{
		Name:     "x",
		MinScore: 1.0,
		Patterns: []Pattern{{Expr: `([`, Weight: 1.0}},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x")
}
