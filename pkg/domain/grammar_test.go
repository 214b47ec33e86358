package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DeduplicatesAndKeepsOrder(t *testing.T) {
	b := domain.NewBuilder()
	b.Add("S", domain.Production{"A", "B"}).
		Add("A", domain.Production{"a"}).
		Add("S", domain.Production{"A", "B"}).
		Add("S", domain.Production{"b"})

	g := b.Build()

	assert.Equal(t, domain.Symbol("S"), g.Start())
	assert.Equal(t, []domain.Symbol{"S", "A"}, g.Nonterminals())
	assert.Equal(t, []domain.Production{{"A", "B"}, {"b"}}, g.Productions("S"))
	assert.Equal(t, 3, g.Size())
}

func TestBuilder_Prepend(t *testing.T) {
	b := domain.NewBuilder()
	b.Add("S", domain.Production{"a"})
	b.Prepend("S0").Add("S0", domain.Production{"S"})

	g := b.Build()
	assert.Equal(t, domain.Symbol("S0"), g.Start())
	assert.Equal(t, []domain.Symbol{"S0", "S"}, g.Nonterminals())
}

func TestGrammar_Immutable(t *testing.T) {
	b := domain.NewBuilder()
	b.Add("S", domain.Production{"a", "S"})
	g := b.Build()

	prods := g.Productions("S")
	prods[0][0] = "z"
	b.Add("S", domain.Production{"b"})

	assert.Equal(t, []domain.Production{{"a", "S"}}, g.Productions("S"))
}

func TestGrammar_Classification(t *testing.T) {
	b := domain.NewBuilder()
	b.Add("S", domain.Production{"a", "A"}).
		Add("A", domain.EpsilonProduction()).
		Declare("D")
	g := b.Build()

	assert.True(t, g.IsNonterminal("A"))
	assert.True(t, g.IsNonterminal("D"))
	assert.True(t, g.IsTerminal("a"))
	assert.False(t, g.IsTerminal(domain.Epsilon))
	assert.False(t, g.IsNonterminal(domain.Epsilon))
	assert.Equal(t, []domain.Symbol{"a"}, g.Terminals())
	assert.Empty(t, g.Productions("D"))
}

func TestProduction(t *testing.T) {
	assert.True(t, domain.EpsilonProduction().IsEpsilon())
	assert.False(t, domain.Production{"a"}.IsEpsilon())
	assert.Equal(t, "A b C", domain.Production{"A", "b", "C"}.String())
	assert.True(t, domain.Production{"a", "b"}.Equal(domain.Production{"a", "b"}))
	assert.False(t, domain.Production{"a", "b"}.Equal(domain.Production{"b", "a"}))
}

func TestMalformedRuleError(t *testing.T) {
	var err error = &domain.MalformedRuleError{Line: 3, Content: "S a", Reason: "missing arrow"}

	require.True(t, errors.Is(err, domain.ErrMalformedRule))
	assert.Equal(t, `line 3: missing arrow: "S a"`, err.Error())
}
