package observability

import (
	"context"

	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the engine.
type Metrics struct {
	stageRuns        *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	stageProductions *prometheus.GaugeVec
	conversions      *prometheus.CounterVec
	generatedWords   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chomsky_stage_runs_total",
				Help: "Total number of completed pipeline stages",
			},
			[]string{"stage"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chomsky_stage_duration_seconds",
				Help:    "Duration of pipeline stages",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"stage"},
		),
		stageProductions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "chomsky_stage_productions",
				Help: "Number of productions after the last run of each stage",
			},
			[]string{"stage"},
		),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chomsky_conversions_total",
				Help: "Total number of CNF conversions by result",
			},
			[]string{"result"},
		),
		generatedWords: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chomsky_generated_words",
				Help:    "Number of words returned per enumeration",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.stageRuns, m.stageDuration, m.stageProductions, m.conversions, m.generatedWords)
	}
	return m
}

// Hooks returns pipeline hooks that record stage metrics.
func (m *Metrics) Hooks() domain.PipelineHooks {
	return domain.PipelineHooks{
		OnStageComplete: func(_ context.Context, e *domain.StageEvent) {
			m.stageRuns.WithLabelValues(e.Stage).Inc()
			m.stageDuration.WithLabelValues(e.Stage).Observe(e.Duration.Seconds())
			m.stageProductions.WithLabelValues(e.Stage).Set(float64(e.Productions))
		},
	}
}

// ObserveConversion counts a conversion attempt.
func (m *Metrics) ObserveConversion(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.conversions.WithLabelValues(result).Inc()
}

// ObserveGeneration records the size of an enumeration result.
func (m *Metrics) ObserveGeneration(words int) {
	m.generatedWords.Observe(float64(words))
}

// StageRuns exposes the run counter of a stage.
func (m *Metrics) StageRuns(stage string) prometheus.Counter {
	return m.stageRuns.WithLabelValues(stage)
}

// StageProductions exposes the production gauge of a stage.
func (m *Metrics) StageProductions(stage string) prometheus.Gauge {
	return m.stageProductions.WithLabelValues(stage)
}

// Conversions exposes the conversion counter for a result label ("ok" or "error").
func (m *Metrics) Conversions(result string) prometheus.Counter {
	return m.conversions.WithLabelValues(result)
}
