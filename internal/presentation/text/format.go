package text

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/chomsky/pkg/domain"
)

// Arrow is the derivation glyph used in canonical output.
const Arrow = "→"

// Format renders g as canonical text.
// The start entry comes first and the remaining nonterminals follow in lexical
// order. Nonterminals without productions are omitted.
func Format(g *domain.Grammar, start domain.Symbol) string {
	order := make([]domain.Symbol, 0, g.Len())
	if g.IsNonterminal(start) {
		order = append(order, start)
	}
	rest := make([]domain.Symbol, 0, g.Len())
	for _, nt := range g.Nonterminals() {
		if nt != start {
			rest = append(rest, nt)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	order = append(order, rest...)

	lines := make([]string, 0, len(order))
	for _, nt := range order {
		prods := g.Productions(nt)
		if len(prods) == 0 {
			continue
		}
		alts := make([]string, len(prods))
		for i, p := range prods {
			alts[i] = p.String()
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", nt, Arrow, strings.Join(alts, " | ")))
	}
	return strings.Join(lines, "\n")
}

// Markdown renders the conversion audit trail as a Markdown document,
// one section per step with the grammar in a fenced block.
func Markdown(title string, steps []domain.Step) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("# " + title + "\n\n")
	}
	for i, s := range steps {
		sb.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, s.Title))
		sb.WriteString("```\n")
		if s.Text != "" {
			sb.WriteString(s.Text)
			sb.WriteString("\n")
		}
		sb.WriteString("```\n\n")
	}
	return sb.String()
}
