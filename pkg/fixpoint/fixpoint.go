// Package fixpoint computes the monotone symbol sets shared by the CNF
// pipeline and the language enumerator.
//
// Every computation repeats a pass over the grammar until nothing changes.
// Sets only grow, so the loop ends after at most |nonterminals| passes.
package fixpoint

import (
	"math"

	"github.com/aretw0/chomsky/pkg/domain"
)

// Unbounded is the MinYield of a nonterminal that derives no terminal string.
const Unbounded = math.MaxInt

// Nullable returns the nonterminals that can derive the empty string.
func Nullable(g *domain.Grammar) Set {
	nullable := make(map[domain.Symbol]struct{})

	for changed := true; changed; {
		changed = false
		g.Each(func(nt domain.Symbol, prods []domain.Production) {
			if _, ok := nullable[nt]; ok {
				return
			}
			for _, p := range prods {
				if p.IsEpsilon() || all(p, func(s domain.Symbol) bool { return has(nullable, s) }) {
					nullable[nt] = struct{}{}
					changed = true
					return
				}
			}
		})
	}
	return newSet(nullable)
}

// Generating returns the nonterminals that can derive some terminal string.
func Generating(g *domain.Grammar) Set {
	generating := make(map[domain.Symbol]struct{})

	for changed := true; changed; {
		changed = false
		g.Each(func(nt domain.Symbol, prods []domain.Production) {
			if _, ok := generating[nt]; ok {
				return
			}
			for _, p := range prods {
				if produces(g, p, generating) {
					generating[nt] = struct{}{}
					changed = true
					return
				}
			}
		})
	}
	return newSet(generating)
}

// Produces reports whether every symbol of p is a terminal or a member of generating.
// Epsilon is ignored, so [ε] always produces.
func Produces(g *domain.Grammar, p domain.Production, generating Set) bool {
	return produces(g, p, generating.members)
}

func produces(g *domain.Grammar, p domain.Production, generating map[domain.Symbol]struct{}) bool {
	return all(p, func(s domain.Symbol) bool {
		return s == domain.Epsilon || g.IsTerminal(s) || has(generating, s)
	})
}

// Reachable returns the nonterminals reachable from start, start included.
// Nothing is reachable from a symbol that is not a nonterminal of g.
func Reachable(g *domain.Grammar, start domain.Symbol) Set {
	reachable := make(map[domain.Symbol]struct{})
	if !g.IsNonterminal(start) {
		return newSet(reachable)
	}

	queue := []domain.Symbol{start}
	reachable[start] = struct{}{}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, p := range g.Productions(current) {
			for _, s := range p {
				if !g.IsNonterminal(s) || has(reachable, s) {
					continue
				}
				reachable[s] = struct{}{}
				queue = append(queue, s)
			}
		}
	}
	return newSet(reachable)
}

// MinYield returns, for every nonterminal, the length of the shortest
// terminal string it derives. Non-generating nonterminals map to Unbounded.
func MinYield(g *domain.Grammar) map[domain.Symbol]int {
	yield := make(map[domain.Symbol]int, g.Len())
	for _, nt := range g.Nonterminals() {
		yield[nt] = Unbounded
	}

	for changed := true; changed; {
		changed = false
		g.Each(func(nt domain.Symbol, prods []domain.Production) {
			for _, p := range prods {
				if n := productionYield(g, p, yield); n < yield[nt] {
					yield[nt] = n
					changed = true
				}
			}
		})
	}
	return yield
}

func productionYield(g *domain.Grammar, p domain.Production, yield map[domain.Symbol]int) int {
	total := 0
	for _, s := range p {
		switch {
		case s == domain.Epsilon:
		case g.IsNonterminal(s):
			if yield[s] == Unbounded {
				return Unbounded
			}
			total += yield[s]
		default:
			total++
		}
	}
	return total
}

func all(p domain.Production, pred func(domain.Symbol) bool) bool {
	for _, s := range p {
		if !pred(s) {
			return false
		}
	}
	return true
}

func has(m map[domain.Symbol]struct{}, s domain.Symbol) bool {
	_, ok := m[s]
	return ok
}
