package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/aretw0/chomsky/pkg/domain"
)

// Accepted derivation arrows.
const (
	ArrowASCII   = "->"
	ArrowUnicode = "→"
)

// epsilonLiteral is the ASCII spelling of the empty production.
const epsilonLiteral = "E"

// Parser converts grammar source text into a Grammar.
//
// The text is line oriented: `LHS -> RHS1 | RHS2 | ...`. By default the first
// malformed line aborts parsing with a *domain.MalformedRuleError.
type Parser struct {
	skipMalformed bool
	logger        *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithSkipMalformed makes the parser log and skip malformed lines instead of failing.
func WithSkipMalformed() Option {
	return func(p *Parser) {
		p.skipMalformed = true
	}
}

// WithLogger sets the logger used to report skipped lines.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a new parser instance.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads every non-blank line of text as a rule.
func (p *Parser) Parse(text string) (*domain.Grammar, error) {
	b := domain.NewBuilder()
	rules := 0

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		lhs, prods, err := parseLine(i+1, line)
		if err != nil {
			if p.skipMalformed {
				p.logger.Warn("Skipping malformed rule", "line", i+1, "content", line, "error", err)
				continue
			}
			return nil, err
		}

		for _, prod := range prods {
			b.Add(lhs, prod)
		}
		rules++
	}

	if rules == 0 {
		return nil, domain.ErrEmptyGrammar
	}
	return b.Build(), nil
}

func parseLine(lineNo int, line string) (domain.Symbol, []domain.Production, error) {
	malformed := func(reason string) error {
		return &domain.MalformedRuleError{Line: lineNo, Content: line, Reason: reason}
	}

	idx, width := findArrow(line)
	if idx < 0 {
		return "", nil, malformed("missing derivation arrow")
	}

	lhs := strings.TrimSpace(line[:idx])
	rhs := strings.TrimSpace(line[idx+width:])
	if lhs == "" {
		return "", nil, malformed("empty left-hand side")
	}
	if strings.ContainsFunc(lhs, unicode.IsSpace) {
		return "", nil, malformed("left-hand side must be a single symbol")
	}

	alts := strings.Split(rhs, "|")
	prods := make([]domain.Production, 0, len(alts))
	for _, alt := range alts {
		prod, ok := parseAlternative(strings.TrimSpace(alt))
		if !ok {
			return "", nil, malformed("empty alternative")
		}
		prods = append(prods, prod)
	}

	return domain.Symbol(lhs), prods, nil
}

// findArrow returns the byte offset and width of the first arrow in line.
func findArrow(line string) (int, int) {
	ascii := strings.Index(line, ArrowASCII)
	uni := strings.Index(line, ArrowUnicode)

	switch {
	case ascii < 0 && uni < 0:
		return -1, 0
	case uni < 0 || (ascii >= 0 && ascii < uni):
		return ascii, len(ArrowASCII)
	default:
		return uni, len(ArrowUnicode)
	}
}

// parseAlternative tokenizes one alternative. Whitespace-separated tokens are
// symbols; without whitespace every character is its own symbol.
func parseAlternative(alt string) (domain.Production, bool) {
	if alt == "" {
		return nil, false
	}
	if alt == epsilonLiteral || alt == string(domain.Epsilon) {
		return domain.EpsilonProduction(), true
	}

	var tokens []string
	if strings.ContainsFunc(alt, unicode.IsSpace) {
		tokens = strings.Fields(alt)
	} else {
		for _, r := range alt {
			tokens = append(tokens, string(r))
		}
	}

	prod := make(domain.Production, 0, len(tokens))
	for _, tok := range tokens {
		if domain.Symbol(tok) == domain.Epsilon {
			continue
		}
		prod = append(prod, domain.Symbol(tok))
	}
	if len(prod) == 0 {
		return domain.EpsilonProduction(), true
	}
	return prod, true
}

// MustParse is like Parse with default options but panics on error.
// It simplifies tests and static grammar definitions.
func MustParse(text string) *domain.Grammar {
	g, err := NewParser().Parse(text)
	if err != nil {
		panic(fmt.Sprintf("compiler: %v", err))
	}
	return g
}
