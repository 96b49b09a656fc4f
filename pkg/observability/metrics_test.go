package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/internal/logging"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/dsl"
	"github.com/aretw0/circuitlab/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	var logs bytes.Buffer
	hooks := observability.Chain(m.Hooks(), observability.LogHooks(logging.NewWithWriter(&logs, slog.LevelDebug)))

	b := dsl.New("loop")
	b.Source("bat", domain.Pt(0, 0), domain.Pt(100, 0))
	b.Wire("w", domain.Pt(100, 0), domain.Pt(0, 0))

	g := circuitlab.New(circuitlab.WithLifecycleHooks(hooks), circuitlab.WithStepLimit(1))
	for _, spec := range b.Specs() {
		g.AddElement(spec)
	}
	g.AddElement(domain.ElementSpec{Kind: "magnet"})
	g.AddElement(domain.ElementSpec{Kind: domain.KindLamp})
	g.Simulate(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Simulations.WithLabelValues("open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dropped.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dropped.WithLabelValues("lamp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Capped))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))

	assert.Contains(t, logs.String(), "traversal_capped")
	assert.Contains(t, logs.String(), "element_dropped")
}

func TestNewMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestChain_SkipsNil(t *testing.T) {
	calls := 0
	hooks := observability.Chain(
		domain.LifecycleHooks{},
		domain.LifecycleHooks{OnSimulate: func(ctx context.Context, e *domain.SimulationEvent) { calls++ }},
	)
	hooks.OnSimulate(context.Background(), &domain.SimulationEvent{})
	hooks.OnTraversalCapped(context.Background(), &domain.CapEvent{})
	assert.Equal(t, 1, calls)
}
