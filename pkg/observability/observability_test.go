package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/chomsky/internal/compiler"
	"github.com/aretw0/chomsky/pkg/cnf"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	g := compiler.MustParse("S -> aS | b")
	_, err := cnf.Convert(context.Background(), g, cnf.WithHooks(m.Hooks()))
	require.NoError(t, err)
	_, err = cnf.Convert(context.Background(), g, cnf.WithHooks(m.Hooks()))
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StageRuns(cnf.StageEpsilon)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StageRuns(cnf.StageBinarize)))

	// S0 → T_a S | b, S → T_a S | b, T_a → a
	assert.Equal(t, 5.0, testutil.ToFloat64(m.StageProductions(cnf.StageBinarize)))

	count, err := testutil.GatherAndCount(reg, "chomsky_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestMetrics_Conversions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.ObserveConversion(nil)
	m.ObserveConversion(nil)
	m.ObserveConversion(errors.New("boom"))
	m.ObserveGeneration(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Conversions("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conversions("error")))

	count, err := testutil.GatherAndCount(reg, "chomsky_generated_words")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCombine_LogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var completed int
	counting := observability.Combine(
		observability.LogHooks(logger),
		cnfCounter(&completed),
	)

	_, err := cnf.Convert(context.Background(), compiler.MustParse("S -> a"), cnf.WithHooks(counting))
	require.NoError(t, err)

	assert.Equal(t, 6, completed)
	assert.Contains(t, buf.String(), "msg=stage_start")
	assert.Contains(t, buf.String(), "stage=binarize")
}

func cnfCounter(n *int) domain.PipelineHooks {
	return domain.PipelineHooks{
		OnStageComplete: func(context.Context, *domain.StageEvent) { *n++ },
	}
}
