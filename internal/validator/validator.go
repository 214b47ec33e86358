package validator

import (
	"fmt"

	"github.com/aretw0/chomsky/pkg/domain"
)

// IsStrictCNF reports whether every production of g is A → a, A → B C,
// or start → ε.
func IsStrictCNF(g *domain.Grammar, start domain.Symbol) bool {
	return len(Violations(g, start)) == 0
}

// Violations lists every production of g that is not in strict CNF,
// in grammar order.
func Violations(g *domain.Grammar, start domain.Symbol) []domain.Violation {
	var out []domain.Violation
	g.Each(func(nt domain.Symbol, prods []domain.Production) {
		for _, p := range prods {
			if reason := check(g, start, nt, p); reason != "" {
				out = append(out, domain.Violation{Nonterminal: nt, Production: p, Reason: reason})
			}
		}
	})
	return out
}

func check(g *domain.Grammar, start, nt domain.Symbol, p domain.Production) string {
	switch {
	case p.IsEpsilon():
		if nt != start {
			return fmt.Sprintf("ε-production outside start symbol %s", start)
		}
		return ""
	case len(p) == 0:
		return "empty production"
	case len(p) == 1:
		if g.IsNonterminal(p[0]) {
			return "unit production"
		}
		return ""
	case len(p) == 2:
		for _, s := range p {
			if !g.IsNonterminal(s) {
				return fmt.Sprintf("binary production with non-nonterminal %q", s)
			}
		}
		return ""
	default:
		return fmt.Sprintf("production of length %d", len(p))
	}
}
