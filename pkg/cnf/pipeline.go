package cnf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/chomsky/internal/presentation/text"
	"github.com/aretw0/chomsky/pkg/domain"
)

// Stage identifiers reported in StageEvent.Stage.
const (
	StageStart     = "start"
	StageEpsilon   = "epsilon"
	StageUnit      = "unit"
	StageUseless   = "useless"
	StageTerminals = "terminals"
	StageBinarize  = "binarize"
)

// Step titles of the audit trail, in pipeline order.
const (
	TitleStart     = "Add a new start symbol"
	TitleEpsilon   = "Remove ε-productions"
	TitleUnit      = "Remove unit productions"
	TitleUseless   = "Remove useless symbols"
	TitleTerminals = "Replace terminals in long rules"
	TitleBinarize  = "Binarize long rules"
	TitleFinal     = "Chomsky Normal Form"
)

// Result is the outcome of a conversion.
type Result struct {
	Grammar *domain.Grammar
	Start   domain.Symbol
	Steps   []domain.Step
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHooks registers stage callbacks.
func WithHooks(hooks domain.PipelineHooks) Option {
	return func(p *Pipeline) {
		p.hooks = hooks
	}
}

// WithLogger sets the logger used for stage diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithStart converts from sym instead of the grammar's first key.
func WithStart(sym domain.Symbol) Option {
	return func(p *Pipeline) {
		p.start = sym
	}
}

// Pipeline runs the six normalization stages in order.
type Pipeline struct {
	hooks  domain.PipelineHooks
	logger *slog.Logger
	start  domain.Symbol
}

// New creates a pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Convert is shorthand for New(opts...).Convert(ctx, g).
func Convert(ctx context.Context, g *domain.Grammar, opts ...Option) (*Result, error) {
	return New(opts...).Convert(ctx, g)
}

type stage struct {
	name  string
	title string
	apply func(ctx context.Context, g *domain.Grammar, start domain.Symbol) (*domain.Grammar, error)
}

// pure lifts a stage that cannot fail.
func pure(fn func(g *domain.Grammar) *domain.Grammar) func(context.Context, *domain.Grammar, domain.Symbol) (*domain.Grammar, error) {
	return func(_ context.Context, g *domain.Grammar, _ domain.Symbol) (*domain.Grammar, error) {
		return fn(g), nil
	}
}

// Convert normalizes g into strict CNF, starting from its first key unless
// WithStart names another nonterminal.
// Each stage appends a Step rendered with the formatter; a final step repeats
// the resulting grammar. Cancellation is checked between stages and inside
// ε-elimination.
func (p *Pipeline) Convert(ctx context.Context, g *domain.Grammar) (*Result, error) {
	if g.Len() == 0 {
		return nil, domain.ErrEmptyGrammar
	}
	root := g.Start()
	if p.start != "" {
		root = p.start
	}
	if !g.IsNonterminal(root) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUndefinedStart, root)
	}

	var start domain.Symbol
	stages := []stage{
		{StageStart, TitleStart, func(_ context.Context, g *domain.Grammar, _ domain.Symbol) (*domain.Grammar, error) {
			var out *domain.Grammar
			out, start = IsolateStart(g, root)
			return out, nil
		}},
		{StageEpsilon, TitleEpsilon, EliminateEpsilon},
		{StageUnit, TitleUnit, pure(EliminateUnits)},
		{StageUseless, TitleUseless, func(_ context.Context, g *domain.Grammar, start domain.Symbol) (*domain.Grammar, error) {
			return EliminateUseless(g, start), nil
		}},
		{StageTerminals, TitleTerminals, pure(IsolateTerminals)},
		{StageBinarize, TitleBinarize, pure(Binarize)},
	}

	steps := make([]domain.Step, 0, len(stages)+1)
	current := g
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		began := time.Now()
		p.emit(ctx, p.hooks.OnStageStart, domain.EventStageStart, s, current, 0)

		next, err := s.apply(ctx, current, start)
		if err != nil {
			p.logger.Debug("stage failed", "stage", s.name, "error", err)
			return nil, err
		}
		current = next

		elapsed := time.Since(began)
		p.emit(ctx, p.hooks.OnStageComplete, domain.EventStageComplete, s, current, elapsed)
		p.logger.Debug("stage complete",
			"stage", s.name,
			"nonterminals", current.Len(),
			"productions", current.Size(),
			"duration", elapsed)

		steps = append(steps, domain.Step{Title: s.title, Text: text.Format(current, start)})
	}

	steps = append(steps, domain.Step{Title: TitleFinal, Text: text.Format(current, start)})

	return &Result{Grammar: current, Start: start, Steps: steps}, nil
}

func (p *Pipeline) emit(ctx context.Context, fn func(context.Context, *domain.StageEvent), typ domain.EventType, s stage, g *domain.Grammar, d time.Duration) {
	if fn == nil {
		return
	}
	fn(ctx, &domain.StageEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
		},
		Stage:        s.name,
		Title:        s.title,
		Nonterminals: g.Len(),
		Productions:  g.Size(),
		Duration:     d,
	})
}
