package domain

// Grammar is an immutable, ordered mapping from nonterminal to productions.
// The first key is the start symbol. Use Builder to create one.
type Grammar struct {
	order []Symbol
	rules map[Symbol][]Production
}

// Start returns the start symbol (the first key), or "" for an empty grammar.
func (g *Grammar) Start() Symbol {
	if g == nil || len(g.order) == 0 {
		return ""
	}
	return g.order[0]
}

// Nonterminals returns the keys in insertion order.
func (g *Grammar) Nonterminals() []Symbol {
	if g == nil {
		return nil
	}
	out := make([]Symbol, len(g.order))
	copy(out, g.order)
	return out
}

// Productions returns a copy of the productions of nt.
func (g *Grammar) Productions(nt Symbol) []Production {
	if g == nil {
		return nil
	}
	prods := g.rules[nt]
	out := make([]Production, len(prods))
	for i, p := range prods {
		out[i] = p.Clone()
	}
	return out
}

// IsNonterminal reports whether s is a key of g.
func (g *Grammar) IsNonterminal(s Symbol) bool {
	if g == nil {
		return false
	}
	_, ok := g.rules[s]
	return ok
}

// IsTerminal reports whether s is neither a key of g nor Epsilon.
func (g *Grammar) IsTerminal(s Symbol) bool {
	return s != Epsilon && !g.IsNonterminal(s)
}

// Len returns the number of nonterminals.
func (g *Grammar) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// Size returns the total number of productions.
func (g *Grammar) Size() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, prods := range g.rules {
		n += len(prods)
	}
	return n
}

// Symbols returns every symbol used by g, keys first, then right-hand side
// symbols in order of appearance. Epsilon is not included.
func (g *Grammar) Symbols() []Symbol {
	if g == nil {
		return nil
	}
	seen := make(map[Symbol]bool)
	var out []Symbol
	add := func(s Symbol) {
		if s == Epsilon || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, nt := range g.order {
		add(nt)
	}
	for _, nt := range g.order {
		for _, p := range g.rules[nt] {
			for _, s := range p {
				add(s)
			}
		}
	}
	return out
}

// Terminals returns the terminal symbols of g in order of appearance.
func (g *Grammar) Terminals() []Symbol {
	var out []Symbol
	for _, s := range g.Symbols() {
		if g.IsTerminal(s) {
			out = append(out, s)
		}
	}
	return out
}

// Each calls fn for every nonterminal in order, with a copy of its productions.
func (g *Grammar) Each(fn func(nt Symbol, prods []Production)) {
	if g == nil {
		return
	}
	for _, nt := range g.order {
		fn(nt, g.Productions(nt))
	}
}
