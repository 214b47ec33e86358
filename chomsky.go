package chomsky

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/chomsky/internal/compiler"
	"github.com/aretw0/chomsky/internal/presentation/text"
	"github.com/aretw0/chomsky/internal/sanitize"
	"github.com/aretw0/chomsky/internal/validator"
	"github.com/aretw0/chomsky/pkg/adapters/memory"
	"github.com/aretw0/chomsky/pkg/cnf"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/enumerate"
	"github.com/aretw0/chomsky/pkg/observability"
	"github.com/aretw0/chomsky/pkg/ports"
	"github.com/google/uuid"
)

// ParseGrammar reads the line-oriented rule format. The first rule's
// left-hand side is the start symbol. Parsing stops at the first malformed line.
func ParseGrammar(text string) (*domain.Grammar, error) {
	return compiler.NewParser().Parse(text)
}

// ToCNF converts g into strict Chomsky Normal Form and returns the resulting
// grammar, its new start symbol and the audit trail of every stage.
func ToCNF(g *domain.Grammar) (*cnf.Result, error) {
	return cnf.Convert(context.Background(), g)
}

// FormatGrammar renders g with start first and the other nonterminals sorted.
func FormatGrammar(g *domain.Grammar, start domain.Symbol) string {
	return text.Format(g, start)
}

// IsStrictCNF reports whether g is in strict CNF with respect to start.
func IsStrictCNF(g *domain.Grammar, start domain.Symbol) bool {
	return validator.IsStrictCNF(g, start)
}

// GenerateWords lists the words of g with at most maxLength terminals.
func GenerateWords(g *domain.Grammar, maxLength int, opts ...enumerate.Option) ([]string, error) {
	return enumerate.Words(context.Background(), g, maxLength, opts...)
}

// Engine wraps the conversion core with logging, hooks, metrics and a
// conversion store. It is safe for concurrent use when its store is.
type Engine struct {
	store      ports.ConversionStore
	hooks      domain.PipelineHooks
	metrics    *observability.Metrics
	logger     *slog.Logger
	parserOpts []compiler.Option
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the conversion store (default: in-memory).
func WithStore(store ports.ConversionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithPipelineHooks registers observability hooks on every conversion.
func WithPipelineHooks(hooks domain.PipelineHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMetrics records conversion and enumeration metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSkipMalformed makes parsing skip malformed lines instead of failing.
func WithSkipMalformed() Option {
	return func(e *Engine) {
		e.parserOpts = append(e.parserOpts, compiler.WithSkipMalformed())
	}
}

// New initializes an Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.metrics != nil {
		eng.hooks = observability.Combine(eng.hooks, eng.metrics.Hooks())
	}
	return eng
}

// Parse reads grammar text with the engine's parser settings.
func (e *Engine) Parse(source string) (*domain.Grammar, error) {
	opts := append([]compiler.Option{compiler.WithLogger(e.logger)}, e.parserOpts...)
	return compiler.NewParser(opts...).Parse(source)
}

// parseBounded parses source and rejects grammars too large to normalize.
func (e *Engine) parseBounded(source string) (*domain.Grammar, error) {
	g, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	if err := sanitize.Grammar(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Convert parses source, converts it to CNF from start and stores the record.
// An empty start means the first rule's left-hand side; a start without
// rules fails with domain.ErrUndefinedStart.
func (e *Engine) Convert(ctx context.Context, source string, start domain.Symbol) (*domain.Conversion, error) {
	conv, err := e.convert(ctx, source, start)
	if e.metrics != nil {
		e.metrics.ObserveConversion(err)
	}
	return conv, err
}

func (e *Engine) convert(ctx context.Context, source string, start domain.Symbol) (*domain.Conversion, error) {
	g, err := e.parseBounded(source)
	if err != nil {
		return nil, err
	}

	opts := []cnf.Option{cnf.WithHooks(e.hooks), cnf.WithLogger(e.logger)}
	if start != "" {
		opts = append(opts, cnf.WithStart(start))
	}
	res, err := cnf.Convert(ctx, g, opts...)
	if err != nil {
		return nil, err
	}

	conv := &domain.Conversion{
		ID:        uuid.NewString(),
		Source:    source,
		Start:     res.Start,
		CNF:       text.Format(res.Grammar, res.Start),
		Steps:     res.Steps,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to save conversion: %w", err)
	}

	e.logger.Info("conversion stored",
		"id", conv.ID,
		"start", conv.Start,
		"nonterminals", res.Grammar.Len(),
		"productions", res.Grammar.Size(),
	)
	return conv, nil
}

// Conversion loads a stored conversion.
// Returns domain.ErrConversionNotFound if the ID is unknown.
func (e *Engine) Conversion(ctx context.Context, id string) (*domain.Conversion, error) {
	return e.store.Load(ctx, id)
}

// Conversions lists stored conversion IDs.
func (e *Engine) Conversions(ctx context.Context) ([]string, error) {
	return e.store.List(ctx)
}

// Generate parses source and enumerates its words up to maxLength terminals.
func (e *Engine) Generate(ctx context.Context, source string, maxLength int, opts ...enumerate.Option) ([]string, error) {
	g, err := e.parseBounded(source)
	if err != nil {
		return nil, err
	}

	words, err := enumerate.Words(ctx, g, maxLength, opts...)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.ObserveGeneration(len(words))
	}
	e.logger.Debug("words generated", "count", len(words), "max_length", maxLength)
	return words, nil
}

// Check parses source and lists its strict CNF violations with respect to
// start, or to the first rule's left-hand side when start is empty.
func (e *Engine) Check(source string, start domain.Symbol) ([]domain.Violation, error) {
	g, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	if start == "" {
		start = g.Start()
	}
	if !g.IsNonterminal(start) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUndefinedStart, start)
	}
	return validator.Violations(g, start), nil
}
