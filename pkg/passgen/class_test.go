package passgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassTables(t *testing.T) {
	tests := []struct {
		class    Class
		name     string
		weight   int
		alphabet int
	}{
		{Lower, "lower", 3, 26},
		{Upper, "upper", 3, 26},
		{Digit, "digits", 2, 10},
		{Symbol, "symbols", 1, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.class.String())
			assert.Equal(t, tt.weight, tt.class.Weight())
			assert.Len(t, tt.class.Alphabet(), tt.alphabet)
		})
	}
}

func TestUnknownClass(t *testing.T) {
	c := Class(9)
	assert.NotPanics(t, func() {
		assert.Equal(t, "", c.Alphabet())
		assert.Equal(t, 0, c.Weight())
		assert.Equal(t, "Class(9)", c.String())
	})
}

// Every generation character must classify back to the class that produced
// it, otherwise generated candidates could never pass validation.
func TestClassifyMatchesAlphabets(t *testing.T) {
	for _, c := range AllClasses {
		for _, r := range c.Alphabet() {
			assert.Equal(t, c, Classify(r), "%q", r)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		r    rune
		want Class
	}{
		{'0', Digit},
		{'9', Digit},
		{'A', Upper},
		{'Z', Upper},
		{'a', Lower},
		{'z', Lower},
		{'/', Symbol},
		{':', Symbol},
		{'@', Symbol},
		{'[', Symbol},
		{'`', Symbol},
		{'{', Symbol},
		{' ', Symbol},
		{'-', Symbol},
		{'=', Symbol},
		{'é', Symbol},
		{'Ж', Symbol},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.r), "Classify(%q)", tt.r)
	}
}

func TestParseClass(t *testing.T) {
	for in, want := range map[string]Class{
		"lower":     Lower,
		"Uppercase": Upper,
		" digits ":  Digit,
		"number":    Digit,
		"SYMBOL":    Symbol,
	} {
		got, err := ParseClass(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseClass("emoji")
	assert.Error(t, err)
}

func TestClassSet(t *testing.T) {
	var empty ClassSet
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.Classes())
	assert.Equal(t, "", empty.String())

	s := NewClassSet(Symbol, Lower, Lower)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(Lower))
	assert.True(t, s.Has(Symbol))
	assert.False(t, s.Has(Upper))
	assert.Equal(t, []Class{Lower, Symbol}, s.Classes())
	assert.Equal(t, "lower,symbols", s.String())

	assert.Equal(t, s, s.With(Class(42)))
	assert.False(t, s.Has(Class(-1)))
	assert.Equal(t, "Class(42)", Class(42).String())
}
