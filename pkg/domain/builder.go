package domain

// Builder accumulates rules and produces an immutable Grammar.
// Productions are deduplicated per nonterminal on insertion and the
// first-seen order of nonterminals is preserved.
type Builder struct {
	order []Symbol
	rules map[Symbol][]Production
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		rules: make(map[Symbol][]Production),
	}
}

// Declare registers nt as a nonterminal without adding a production.
// A declared nonterminal with no productions is useless; the pipeline
// removes it in the useless-symbol stage.
func (b *Builder) Declare(nt Symbol) *Builder {
	if _, ok := b.rules[nt]; !ok {
		b.order = append(b.order, nt)
		b.rules[nt] = nil
	}
	return b
}

// Prepend registers nt as the first nonterminal, making it the start symbol.
// It has no effect when nt is already declared.
func (b *Builder) Prepend(nt Symbol) *Builder {
	if _, ok := b.rules[nt]; ok {
		return b
	}
	b.order = append([]Symbol{nt}, b.order...)
	b.rules[nt] = nil
	return b
}

// Add appends p to the productions of nt unless an equal production exists.
func (b *Builder) Add(nt Symbol, p Production) *Builder {
	b.Declare(nt)
	for _, existing := range b.rules[nt] {
		if existing.Equal(p) {
			return b
		}
	}
	b.rules[nt] = append(b.rules[nt], p.Clone())
	return b
}

// Has reports whether nt has been declared.
func (b *Builder) Has(nt Symbol) bool {
	_, ok := b.rules[nt]
	return ok
}

// Build returns the grammar. The builder may keep being used afterwards
// without affecting the returned value.
func (b *Builder) Build() *Grammar {
	g := &Grammar{
		order: make([]Symbol, len(b.order)),
		rules: make(map[Symbol][]Production, len(b.rules)),
	}
	copy(g.order, b.order)
	for nt, prods := range b.rules {
		cp := make([]Production, len(prods))
		for i, p := range prods {
			cp[i] = p.Clone()
		}
		g.rules[nt] = cp
	}
	return g
}
