package text_test

import (
	"strings"
	"testing"

	"github.com/aretw0/chomsky/internal/compiler"
	"github.com/aretw0/chomsky/internal/presentation/text"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_StartFirstThenSorted(t *testing.T) {
	g := compiler.MustParse("S -> A B | a\nB -> b\nA -> a A | E")

	got := text.Format(g, "S")
	want := "S → A B | a\nA → a A | ε\nB → b"
	assert.Equal(t, want, got)
}

func TestFormat_CustomStart(t *testing.T) {
	g := compiler.MustParse("S -> A\nZ -> z\nA -> a")

	got := text.Format(g, "Z")
	assert.Equal(t, "Z → z\nA → a\nS → A", got)
}

func TestFormat_OmitsEmptyNonterminals(t *testing.T) {
	b := domain.NewBuilder()
	b.Add("S", domain.Production{"a", "D"}).Declare("D")

	assert.Equal(t, "S → a D", text.Format(b.Build(), "S"))
}

func TestFormat_Stable(t *testing.T) {
	g := compiler.MustParse("S -> X Y | y\nY -> y\nX -> x")
	assert.Equal(t, text.Format(g, "S"), text.Format(g, "S"))
}

func TestFormat_RoundTrip(t *testing.T) {
	sources := []string{
		"S -> AB | a\nA -> aA | ε\nB -> b",
		"Expr -> Expr + Term | ( Expr ) | x\nTerm -> Term * x | y",
		"A -> B A B | B | ε\nB -> 0 0 | ε",
	}

	for _, src := range sources {
		g := compiler.MustParse(src)
		again, err := compiler.NewParser().Parse(text.Format(g, g.Start()))
		require.NoError(t, err)

		require.ElementsMatch(t, g.Nonterminals(), again.Nonterminals())
		for _, nt := range g.Nonterminals() {
			assert.ElementsMatch(t, g.Productions(nt), again.Productions(nt), "productions of %s", nt)
		}
	}
}

func TestMarkdown(t *testing.T) {
	md := text.Markdown("Steps", []domain.Step{
		{Title: "Add a new start symbol", Text: "S0 → S\nS → a"},
		{Title: "Chomsky Normal Form", Text: "S0 → a"},
	})

	assert.True(t, strings.HasPrefix(md, "# Steps\n"))
	assert.Contains(t, md, "## 1. Add a new start symbol\n\n```\nS0 → S\nS → a\n```")
	assert.Contains(t, md, "## 2. Chomsky Normal Form")
}
