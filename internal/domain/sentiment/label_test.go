package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Label
	}{
		{name: "english positive", raw: "Positive 😊", expected: Positive},
		{name: "english negative", raw: "Negative ☹️", expected: Negative},
		{name: "english neutral", raw: "Neutral 😐", expected: Neutral},
		{name: "hindi positive", raw: "सकारात्मक 😊", expected: Positive},
		{name: "hindi negative", raw: "नकारात्मक ☹️", expected: Negative},
		{name: "hindi neutral", raw: "तटस्थ 😐", expected: Neutral},
		{name: "canonical passes", raw: "Neutral", expected: Neutral},
		{name: "frowning face without variation selector", raw: "Negative ☹", expected: Negative},
		{name: "surrounding whitespace", raw: "  Positive 😊 ", expected: Positive},
		{name: "unknown passes through unchanged", raw: "Mixed 🤔", expected: Label("Mixed 🤔")},
		{name: "lowercase is not canonical", raw: "positive", expected: Label("positive")},
		{name: "empty", raw: "", expected: Label("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.raw))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, raw := range append(KnownVariants(), "Mixed", "", "positive") {
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(string(once)), "raw=%q", raw)
	}
}

func TestNormalize_BilingualEquivalence(t *testing.T) {
	pairs := [][2]string{
		{"Positive 😊", "सकारात्मक 😊"},
		{"Negative ☹️", "नकारात्मक ☹️"},
		{"Neutral 😐", "तटस्थ 😐"},
	}

	for i, pair := range pairs {
		en, hi := Normalize(pair[0]), Normalize(pair[1])
		assert.Equal(t, en, hi)
		assert.Equal(t, Labels[i], en)
	}
}

func TestLabel_Valid(t *testing.T) {
	for _, l := range Labels {
		assert.True(t, l.Valid())
	}
	assert.False(t, Label("Positive 😊").Valid())
	assert.False(t, Label("").Valid())
}

func TestKnownVariants_AllCanonical(t *testing.T) {
	variants := KnownVariants()
	assert.Len(t, variants, 9)
	for _, v := range variants {
		assert.True(t, Normalize(v).Valid(), "variant %q", v)
	}
}
