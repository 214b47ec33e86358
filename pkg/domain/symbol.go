package domain

import "strings"

// Symbol is an opaque grammar token.
// Whether a symbol is a terminal or a nonterminal is never stored on the symbol itself:
// it is always decided against a specific Grammar (see Grammar.IsNonterminal).
type Symbol string

// Epsilon is the reserved sentinel for the empty string.
// It may only appear as the sole element of a production.
const Epsilon Symbol = "ε"

// Production is an ordered, non-empty sequence of symbols, or exactly [Epsilon].
type Production []Symbol

// EpsilonProduction returns the empty-string production [ε].
func EpsilonProduction() Production {
	return Production{Epsilon}
}

// IsEpsilon reports whether p is the empty-string production.
func (p Production) IsEpsilon() bool {
	return len(p) == 1 && p[0] == Epsilon
}

// Equal reports whether both productions hold the same symbols in the same order.
func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that does not share storage with p.
func (p Production) Clone() Production {
	out := make(Production, len(p))
	copy(out, p)
	return out
}

// String joins the symbols with single spaces.
func (p Production) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}
