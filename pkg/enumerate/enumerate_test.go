package enumerate

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/chomsky/internal/compiler"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name      string
		grammar   string
		maxLength int
		want      []string
	}{
		{"right recursion", "S -> aS | b", 3, []string{"b", "ab", "aab"}},
		{"epsilon start", "S -> ε | a", 1, []string{"", "a"}},
		{"nullable growth", "S -> S S | a | E", 2, []string{"", "a", "aa"}},
		{"unit cycle", "S -> A | b\nA -> S | a", 1, []string{"a", "b"}},
		{"shortlex order", "S -> ba | a | ab", 2, []string{"a", "ab", "ba"}},
		{"left recursion", "S -> S a | b", 3, []string{"b", "ba", "baa"}},
		{"empty language", "S -> A\nA -> a A", 5, []string{}},
		{
			"nullable nonterminals",
			"S -> AB | a\nA -> aA | ε\nB -> b",
			3,
			[]string{"a", "b", "ab", "aab"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := compiler.MustParse(tt.grammar)
			got, err := Words(context.Background(), g, tt.maxLength)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWords_WithStart(t *testing.T) {
	g := compiler.MustParse("S -> A B\nA -> a\nB -> b | bB")

	got, err := Words(context.Background(), g, 2, WithStart("B"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "bb"}, got)
}

func TestWords_MaxWords(t *testing.T) {
	g := compiler.MustParse("S -> aS | b")

	got, err := Words(context.Background(), g, 10, WithMaxWords(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "ab"}, got)
}

func TestWords_Errors(t *testing.T) {
	g := compiler.MustParse("S -> a")
	ctx := context.Background()

	_, err := Words(ctx, g, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidBound)

	_, err = Words(ctx, g, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidBound)

	_, err = Words(ctx, g, 2, WithMaxWords(0))
	assert.ErrorIs(t, err, domain.ErrInvalidBound)

	_, err = Words(ctx, g, 2, WithStart("Q"))
	assert.ErrorIs(t, err, domain.ErrUndefinedStart)

	_, err = Words(ctx, domain.NewBuilder().Build(), 2)
	assert.ErrorIs(t, err, domain.ErrEmptyGrammar)
}

func TestWords_OrdersBySymbolCount(t *testing.T) {
	// "xy" is a single terminal, so it is shorter than "aa".
	g := domain.NewBuilder().
		Add("S", domain.Production{"a", "a"}).
		Add("S", domain.Production{"xy"}).
		Build()

	got, err := Words(context.Background(), g, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"xy", "aa"}, got)

	got, err = Words(context.Background(), g, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"xy"}, got)
}

func TestWords_TooManyNullablePositions(t *testing.T) {
	g := compiler.MustParse("S -> " + strings.Repeat("A ", 64) + "\nA -> a | ε")

	_, err := Words(context.Background(), g, 1)
	assert.ErrorIs(t, err, domain.ErrGrammarTooLarge)
}

func TestWords_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Words(ctx, compiler.MustParse("S -> aS | b"), 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWords_DoesNotModifyInput(t *testing.T) {
	g := compiler.MustParse("S -> AB | a\nA -> aA | ε\nB -> b")
	before := g.Productions("A")

	_, err := Words(context.Background(), g, 3)
	require.NoError(t, err)
	assert.Equal(t, before, g.Productions("A"))
	assert.Equal(t, 3, g.Len())
}
