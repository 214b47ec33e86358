// Package enumerate lists the words of a grammar up to a length bound.
//
// The search is a breadth-first expansion of sentential forms, always
// rewriting the leftmost nonterminal. Forms whose terminal count exceeds the
// bound are discarded before expansion, which keeps recursive grammars finite.
package enumerate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/chomsky/pkg/cnf"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/fixpoint"
)

// cancelCheckInterval is how many dequeued forms pass between context checks.
const cancelCheckInterval = 1024

type config struct {
	start    domain.Symbol
	maxWords int
	capped   bool
}

// Option configures Words.
type Option func(*config)

// WithStart enumerates from sym instead of the grammar's first key.
func WithStart(sym domain.Symbol) Option {
	return func(c *config) {
		c.start = sym
	}
}

// WithMaxWords stops the search once n distinct words are found.
func WithMaxWords(n int) Option {
	return func(c *config) {
		c.maxWords = n
		c.capped = true
	}
}

// Words returns the distinct terminal strings derivable from the start symbol
// with at most maxLength terminals, ordered by terminal count and then lexically.
// When a word cap is set, the words returned are the first ones found.
func Words(ctx context.Context, g *domain.Grammar, maxLength int, opts ...Option) ([]string, error) {
	cfg := config{start: g.Start()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if maxLength <= 0 {
		return nil, fmt.Errorf("%w: max length %d", domain.ErrInvalidBound, maxLength)
	}
	if cfg.capped && cfg.maxWords <= 0 {
		return nil, fmt.Errorf("%w: max words %d", domain.ErrInvalidBound, cfg.maxWords)
	}
	if g.Len() == 0 {
		return nil, domain.ErrEmptyGrammar
	}
	if !g.IsNonterminal(cfg.start) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUndefinedStart, cfg.start)
	}

	normalized, start, err := normalize(ctx, g, cfg.start)
	if err != nil {
		return nil, err
	}
	if !normalized.IsNonterminal(start) {
		// The language is empty.
		return []string{}, nil
	}

	s := &search{
		g:         normalized,
		maxLength: maxLength,
		maxWords:  cfg.maxWords,
		minYield:  fixpoint.MinYield(normalized),
		seen:      make(map[string]bool),
		words:     make(map[string]int),
	}
	if err := s.run(ctx, start); err != nil {
		return nil, err
	}
	return s.sorted(), nil
}

// normalize rewrites g into an equivalent grammar without ε-productions
// (except on a fresh start), unit productions or useless symbols. In that form
// every symbol other than the start yields at least one terminal.
func normalize(ctx context.Context, g *domain.Grammar, start domain.Symbol) (*domain.Grammar, domain.Symbol, error) {
	out, fresh := cnf.IsolateStart(g, start)
	out, err := cnf.EliminateEpsilon(ctx, out, fresh)
	if err != nil {
		return nil, "", err
	}
	out = cnf.EliminateUnits(out)
	out = cnf.EliminateUseless(out, fresh)
	return out, fresh, nil
}

type search struct {
	g         *domain.Grammar
	maxLength int
	maxWords  int
	minYield  map[domain.Symbol]int

	seen map[string]bool
	// words maps each word to the fewest terminal symbols spelling it.
	words map[string]int
}

func (s *search) run(ctx context.Context, start domain.Symbol) error {
	queue := []domain.Production{{start}}
	s.seen[key(queue[0])] = true

	for n := 0; len(queue) > 0; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		form := queue[0]
		queue = queue[1:]

		length := s.realizedLength(form)
		if length > s.maxLength {
			continue
		}

		idx := s.leftmostNonterminal(form)
		if idx < 0 {
			w := s.concat(form)
			if prev, ok := s.words[w]; !ok || length < prev {
				s.words[w] = length
			}
			if s.capped() {
				return nil
			}
			continue
		}

		for _, p := range s.g.Productions(form[idx]) {
			next := splice(form, idx, p)
			if s.exceeds(next) {
				continue
			}
			k := key(next)
			if s.seen[k] {
				continue
			}
			s.seen[k] = true
			queue = append(queue, next)
		}
	}
	return nil
}

func (s *search) capped() bool {
	return s.maxWords > 0 && len(s.words) >= s.maxWords
}

// realizedLength counts the terminal symbols of form. A multi-character
// terminal counts once.
func (s *search) realizedLength(form domain.Production) int {
	n := 0
	for _, sym := range form {
		if s.g.IsTerminal(sym) {
			n++
		}
	}
	return n
}

// exceeds reports whether no word within the bound can be derived from form.
func (s *search) exceeds(form domain.Production) bool {
	if len(form) > s.maxLength {
		return true
	}
	least := 0
	for _, sym := range form {
		switch {
		case sym == domain.Epsilon:
		case s.g.IsNonterminal(sym):
			y := s.minYield[sym]
			if y == fixpoint.Unbounded {
				return true
			}
			least += y
		default:
			least++
		}
	}
	return least > s.maxLength
}

func (s *search) leftmostNonterminal(form domain.Production) int {
	for i, sym := range form {
		if s.g.IsNonterminal(sym) {
			return i
		}
	}
	return -1
}

func (s *search) concat(form domain.Production) string {
	var b strings.Builder
	for _, sym := range form {
		if sym != domain.Epsilon {
			b.WriteString(string(sym))
		}
	}
	return b.String()
}

func (s *search) sorted() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := s.words[out[i]], s.words[out[j]]
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}

// splice replaces form[idx] with p. An ε production splices in nothing.
func splice(form domain.Production, idx int, p domain.Production) domain.Production {
	out := make(domain.Production, 0, len(form)-1+len(p))
	out = append(out, form[:idx]...)
	for _, sym := range p {
		if sym != domain.Epsilon {
			out = append(out, sym)
		}
	}
	return append(out, form[idx+1:]...)
}

func key(form domain.Production) string {
	parts := make([]string, len(form))
	for i, sym := range form {
		parts[i] = string(sym)
	}
	return strings.Join(parts, "\x00")
}
