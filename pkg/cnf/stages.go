package cnf

import (
	"context"
	"fmt"

	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/fixpoint"
	"github.com/aretw0/chomsky/pkg/names"
)

// IsolateStart introduces a fresh start symbol (S0, S1, ...) whose only
// production is [start], and places it before every other nonterminal.
func IsolateStart(g *domain.Grammar, start domain.Symbol) (*domain.Grammar, domain.Symbol) {
	fresh := names.NewAllocator(g).Sequential("S", 0)

	b := domain.NewBuilder()
	b.Add(fresh, domain.Production{start})
	copyInto(b, g)
	return b.Build(), fresh
}

// MaxNullablePositions bounds the nullable symbols of a single production
// during ε-elimination. A production with k of them expands into 2^k variants.
const MaxNullablePositions = 63

// epsilonCheckInterval is how many variants pass between context checks.
const epsilonCheckInterval = 4096

// EliminateEpsilon removes ε-productions.
// Every production is expanded over all subsets of its nullable positions.
// An empty variant survives as [ε] only under start. Nonterminals left without
// productions stay declared so they remain nonterminals until the useless-symbol stage.
// It fails with domain.ErrGrammarTooLarge when a production has more than
// MaxNullablePositions nullable symbols, and stops when ctx is done.
func EliminateEpsilon(ctx context.Context, g *domain.Grammar, start domain.Symbol) (*domain.Grammar, error) {
	nullable := fixpoint.Nullable(g)

	b := domain.NewBuilder()
	emitted := 0
	for _, nt := range g.Nonterminals() {
		b.Declare(nt)
		for _, p := range g.Productions(nt) {
			if p.IsEpsilon() {
				if nt == start {
					b.Add(nt, p)
				}
				continue
			}

			var positions []int
			for i, s := range p {
				if nullable.Has(s) {
					positions = append(positions, i)
				}
			}
			if len(positions) > MaxNullablePositions {
				return nil, fmt.Errorf("%w: production %s → %s has %d nullable symbols (limit %d)",
					domain.ErrGrammarTooLarge, nt, p, len(positions), MaxNullablePositions)
			}

			variants := uint64(1) << len(positions)
			for mask := uint64(0); mask < variants; mask++ {
				if emitted++; emitted%epsilonCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return nil, err
					}
				}
				variant := dropPositions(p, positions, mask)
				if len(variant) == 0 {
					if nt != start {
						continue
					}
					variant = domain.EpsilonProduction()
				}
				b.Add(nt, variant)
			}
		}
	}
	return b.Build(), nil
}

// dropPositions returns p without the positions selected by mask,
// where bit k of mask selects positions[k].
func dropPositions(p domain.Production, positions []int, mask uint64) domain.Production {
	drop := make(map[int]bool, len(positions))
	for k, pos := range positions {
		if mask&(uint64(1)<<k) != 0 {
			drop[pos] = true
		}
	}
	out := make(domain.Production, 0, len(p))
	for i, s := range p {
		if !drop[i] {
			out = append(out, s)
		}
	}
	return out
}

// EliminateUnits replaces unit productions (A → B, B a nonterminal) with the
// non-unit productions reachable through unit chains. Unit cycles are cut by a visited set.
func EliminateUnits(g *domain.Grammar) *domain.Grammar {
	b := domain.NewBuilder()
	for _, nt := range g.Nonterminals() {
		b.Declare(nt)

		visited := map[domain.Symbol]bool{nt: true}
		queue := []domain.Symbol{nt}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			for _, p := range g.Productions(current) {
				if !isUnit(g, p) {
					b.Add(nt, p)
					continue
				}
				if target := p[0]; !visited[target] {
					visited[target] = true
					queue = append(queue, target)
				}
			}
		}
	}
	return b.Build()
}

func isUnit(g *domain.Grammar, p domain.Production) bool {
	return len(p) == 1 && g.IsNonterminal(p[0])
}

// EliminateUseless drops non-generating symbols, then symbols unreachable from start.
// The order matters: the first filter can disconnect symbols the second one removes.
func EliminateUseless(g *domain.Grammar, start domain.Symbol) *domain.Grammar {
	generating := fixpoint.Generating(g)

	b := domain.NewBuilder()
	g.Each(func(nt domain.Symbol, prods []domain.Production) {
		if !generating.Has(nt) {
			return
		}
		b.Declare(nt)
		for _, p := range prods {
			if fixpoint.Produces(g, p, generating) {
				b.Add(nt, p)
			}
		}
	})
	productive := b.Build()

	reachable := fixpoint.Reachable(productive, start)

	out := domain.NewBuilder()
	productive.Each(func(nt domain.Symbol, prods []domain.Production) {
		if !reachable.Has(nt) {
			return
		}
		for _, p := range prods {
			out.Add(nt, p)
		}
	})
	return out.Build()
}

// IsolateTerminals replaces every terminal inside productions longer than one
// symbol with a fresh nonterminal T_<terminal> deriving exactly that terminal.
// One nonterminal is introduced per distinct terminal.
func IsolateTerminals(g *domain.Grammar) *domain.Grammar {
	alloc := names.NewAllocator(g)
	mapping := make(map[domain.Symbol]domain.Symbol)
	var introduced []domain.Symbol

	proxy := func(terminal domain.Symbol) domain.Symbol {
		if name, ok := mapping[terminal]; ok {
			return name
		}
		name := alloc.First(1, func(i int) domain.Symbol {
			if i == 1 {
				return domain.Symbol("T_" + terminal)
			}
			return domain.Symbol(fmt.Sprintf("T_%s%d", terminal, i))
		})
		mapping[terminal] = name
		introduced = append(introduced, terminal)
		return name
	}

	b := domain.NewBuilder()
	g.Each(func(nt domain.Symbol, prods []domain.Production) {
		b.Declare(nt)
		for _, p := range prods {
			if len(p) <= 1 {
				b.Add(nt, p)
				continue
			}
			rewritten := make(domain.Production, len(p))
			for i, s := range p {
				if g.IsTerminal(s) {
					rewritten[i] = proxy(s)
				} else {
					rewritten[i] = s
				}
			}
			b.Add(nt, rewritten)
		}
	})

	for _, terminal := range introduced {
		b.Add(mapping[terminal], domain.Production{terminal})
	}
	return b.Build()
}

// Binarize splits every production longer than two symbols into a
// left-to-right chain: A → X1 Y1, Y1 → X2 Y2, ..., Y(n-2) → X(n-1) Xn.
func Binarize(g *domain.Grammar) *domain.Grammar {
	alloc := names.NewAllocator(g)

	b := domain.NewBuilder()
	g.Each(func(nt domain.Symbol, prods []domain.Production) {
		b.Declare(nt)
		for _, p := range prods {
			prev, rest := nt, p
			for len(rest) > 2 {
				next := alloc.Sequential("X", 1)
				b.Add(prev, domain.Production{rest[0], next})
				prev, rest = next, rest[1:]
			}
			b.Add(prev, rest)
		}
	})
	return b.Build()
}

func copyInto(b *domain.Builder, g *domain.Grammar) {
	g.Each(func(nt domain.Symbol, prods []domain.Production) {
		b.Declare(nt)
		for _, p := range prods {
			b.Add(nt, p)
		}
	})
}
