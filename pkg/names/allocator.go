// Package names allocates fresh nonterminal names for the CNF pipeline.
package names

import (
	"fmt"

	"github.com/aretw0/chomsky/pkg/domain"
)

// Allocator hands out names that collide neither with the symbols of the
// grammar it was created from nor with any name it issued before.
//
// Each pipeline stage creates its own Allocator; there is no shared counter.
type Allocator struct {
	taken  map[domain.Symbol]struct{}
	issued []domain.Symbol
}

// NewAllocator reserves every symbol of g (nonterminals and terminals).
func NewAllocator(g *domain.Grammar) *Allocator {
	a := &Allocator{
		taken: make(map[domain.Symbol]struct{}),
	}
	for _, s := range g.Symbols() {
		a.taken[s] = struct{}{}
	}
	a.taken[domain.Epsilon] = struct{}{}
	return a
}

// First returns the first free candidate(i) for i = from, from+1, ...
// and records it as issued.
func (a *Allocator) First(from int, candidate func(i int) domain.Symbol) domain.Symbol {
	for i := from; ; i++ {
		name := candidate(i)
		if _, ok := a.taken[name]; ok {
			continue
		}
		a.taken[name] = struct{}{}
		a.issued = append(a.issued, name)
		return name
	}
}

// Sequential returns the first free prefix+N, probing N from `from` upward.
func (a *Allocator) Sequential(prefix string, from int) domain.Symbol {
	return a.First(from, func(i int) domain.Symbol {
		return domain.Symbol(fmt.Sprintf("%s%d", prefix, i))
	})
}

// Issued returns the names handed out so far, in order.
func (a *Allocator) Issued() []domain.Symbol {
	out := make([]domain.Symbol, len(a.issued))
	copy(out, a.issued)
	return out
}
