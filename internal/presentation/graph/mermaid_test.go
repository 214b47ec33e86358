package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/chomsky/internal/compiler"
	"github.com/aretw0/chomsky/internal/presentation/graph"
	"github.com/aretw0/chomsky/pkg/cnf"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		grammar  string
		start    domain.Symbol
		contains []string
		excludes []string
	}{
		{
			name:     "Start Node Shape",
			grammar:  "S -> A B\nA -> a\nB -> b A",
			start:    "S",
			contains: []string{`S(("S"))`, `B["B"]`},
		},
		{
			name:     "Leaf Node Shape",
			grammar:  "S -> A\nA -> a | b",
			start:    "S",
			contains: []string{`A[/"A"/]`},
		},
		{
			name:     "Edges",
			grammar:  "S -> A | A B\nA -> a\nB -> b S",
			start:    "S",
			contains: []string{"S -.-> A", "S --> B", "B --> S"},
			excludes: []string{"--> a", "--> b"},
		},
		{
			name:     "ID Sanitization",
			grammar:  "S -> S' a\nS' -> b",
			start:    "S",
			contains: []string{`S_[/"S'"/]`, "S --> S_"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(compiler.MustParse(tt.grammar), tt.start, nil)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_IntroducedOverlay(t *testing.T) {
	g := compiler.MustParse("S -> a S b | ε")
	res, err := cnf.Convert(context.Background(), g)
	require.NoError(t, err)

	introduced := graph.Introduced(g, res.Grammar)
	assert.Contains(t, introduced, res.Start)
	assert.NotContains(t, introduced, domain.Symbol("S"))

	got := graph.GenerateMermaid(res.Grammar, res.Start, &graph.GraphOverlay{Introduced: introduced})
	assert.Contains(t, got, "classDef introduced")
	assert.Contains(t, got, "class S0 introduced;")
	assert.Contains(t, got, "class T_a introduced;")
	assert.NotContains(t, got, "class S introduced;")
}
