package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	a, b := CanonicalPair("bbb", "aaa")
	assert.Equal(t, "aaa", a)
	assert.Equal(t, "bbb", b)

	// Order of arguments never changes the result.
	a2, b2 := CanonicalPair("aaa", "bbb")
	assert.Equal(t, a, a2)
	assert.Equal(t, b, b2)
}

func TestMatchTypeValid(t *testing.T) {
	assert.True(t, MatchTypeSolo.Valid())
	assert.True(t, MatchTypeGroup.Valid())
	assert.False(t, MatchType("both").Valid())
	assert.False(t, MatchType("").Valid())
}

func TestPolicyMapping(t *testing.T) {
	assert.Equal(t, SmokersWelcome, SmokingPolicyFor(true))
	assert.Equal(t, NonSmoking, SmokingPolicyFor(false))
	assert.Equal(t, DrinkersWelcome, DrinkingPolicyFor(true))
	assert.Equal(t, NonDrinking, DrinkingPolicyFor(false))
}

func TestNormalizeSet(t *testing.T) {
	got := NormalizeSet([]string{" Hiking ", "FOOD", "", "  "})
	assert.Equal(t, []string{"hiking", "food"}, got)
}

func TestValidationError(t *testing.T) {
	err := Invalid("budget", "must be non-negative")
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "budget")
	assert.False(t, IsValidation(ErrIntentNotFound))
}
