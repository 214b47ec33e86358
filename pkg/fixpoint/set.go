package fixpoint

import (
	"sort"

	"github.com/aretw0/chomsky/pkg/domain"
)

// Set is an immutable set of symbols returned by the fixpoint computations.
type Set struct {
	members map[domain.Symbol]struct{}
}

func newSet(members map[domain.Symbol]struct{}) Set {
	return Set{members: members}
}

// Has reports whether s is in the set.
func (s Set) Has(sym domain.Symbol) bool {
	_, ok := s.members[sym]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.members)
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []domain.Symbol {
	out := make([]domain.Symbol, 0, len(s.members))
	for m := range s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
