package keiba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePermutationInvariant(t *testing.T) {
	t.Parallel()

	for _, bt := range []string{BracketQuinella, BracketExacta, Quinella, Exacta, Wide, Trio} {
		rule, ok := RuleFor(bt)
		require.True(t, ok, bt)
		require.Equal(t, rule.Normalize([]string{"3", "12", "7"}), rule.Normalize([]string{"7", "3", "12"}), bt)
		require.Equal(t, rule.Normalize([]string{"3", "12", "7"}), rule.Normalize([]string{"12", "7", "3"}), bt)
	}

	rule, _ := RuleFor(Trio)
	require.Equal(t, "2 - 7 - 10", rule.Normalize([]string{"10", "2", "7"}))
}

func TestNormalizeOrdered(t *testing.T) {
	t.Parallel()

	rule, ok := RuleFor(Trifecta)
	require.True(t, ok)
	require.Equal(t, RuleOrdered, rule)
	require.Equal(t, "4→1→5", rule.Normalize([]string{"4", "1", "5"}))
	require.NotEqual(t, rule.Normalize([]string{"4", "1", "5"}), rule.Normalize([]string{"1", "4", "5"}))
}

func TestNormalizeExactaIgnoresOrder(t *testing.T) {
	t.Parallel()

	for _, bt := range []string{Exacta, BracketExacta} {
		rule, ok := RuleFor(bt)
		require.True(t, ok, bt)
		require.Equal(t, RuleUnordered, rule, bt)
		require.Equal(t, rule.Normalize([]string{"2", "9"}), rule.Normalize([]string{"9", "2"}), bt)
		require.Equal(t, rule.NormalizeText("9 → 2"), rule.Normalize([]string{"2", "9"}), bt)
	}
}

func TestNormalizeSingleRejectsSeveralHorses(t *testing.T) {
	t.Parallel()

	for _, bt := range []string{Win, Place} {
		rule, _ := RuleFor(bt)
		require.Empty(t, rule.Normalize([]string{"1", "2"}), bt)
		require.Empty(t, rule.NormalizeText("1-2"), bt)
		require.Equal(t, "12", rule.Normalize([]string{"12"}), bt)
	}
}

func TestNormalizeZeroPadding(t *testing.T) {
	t.Parallel()

	single, _ := RuleFor(Win)
	require.Equal(t, "5", single.Normalize([]string{"05"}))
	require.Equal(t, "5", single.NormalizeText(" 5 "))

	unordered, _ := RuleFor(Quinella)
	require.Equal(t, unordered.NormalizeText("01 - 08"), unordered.Normalize([]string{"8", "1"}))
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		Win:      {"07"},
		Wide:     {"11", "03"},
		Trio:     {"9", "1", "14"},
		Trifecta: {"04", "1", "15"},
	}
	for bt, parts := range cases {
		rule, _ := RuleFor(bt)
		once := rule.Normalize(parts)
		require.NotEmpty(t, once, bt)
		require.Equal(t, once, rule.NormalizeText(once), bt)
		require.Equal(t, once, rule.NormalizeText(rule.NormalizeText(once)), bt)
	}
}

func TestSplitCombination(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"4", "1", "5"}, SplitCombination("4→1→5"))
	require.Equal(t, []string{"4", "1", "5"}, SplitCombination("4 - 1 - 5"))
	require.Equal(t, []string{"3", "8"}, SplitCombination("3－8"))
	require.Equal(t, []string{"12"}, SplitCombination("12"))
	require.Empty(t, SplitCombination("  "))
}

func TestRuleForUnknown(t *testing.T) {
	t.Parallel()

	_, ok := RuleFor("WIN5")
	require.False(t, ok)
	r, ok := RuleFor(" 馬連 ")
	require.True(t, ok)
	require.Equal(t, RuleUnordered, r)
}
