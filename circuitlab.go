package circuitlab

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/circuitlab/internal/logging"
	"github.com/aretw0/circuitlab/internal/runtime"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/ports"
)

// MergeMode selects how nearby terminals are clustered into junctions.
type MergeMode = runtime.MergeMode

const (
	// MergeSinglePass compares keys against the current representative only (default).
	MergeSinglePass = runtime.MergeSinglePass
	// MergeTransitive merges every chain of terminals within the threshold.
	MergeTransitive = runtime.MergeTransitive
)

// ParseMergeMode maps "single-pass" or "transitive" to a MergeMode.
func ParseMergeMode(s string) MergeMode {
	return runtime.ParseMergeMode(s)
}

// Graph is the high-level entry point of the library.
// It wraps the internal runtime and is not safe for concurrent use.
type Graph struct {
	runtime     *runtime.Engine
	runtimeOpts []runtime.EngineOption
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Graph.
type Option func(*Graph)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Graph) {
		g.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the graph.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = logger
	}
}

// WithSnapThreshold sets the distance under which terminals merge (default 60).
func WithSnapThreshold(d float64) Option {
	return func(g *Graph) {
		g.runtimeOpts = append(g.runtimeOpts, runtime.WithSnapThreshold(d))
	}
}

// WithStepLimit caps the path search (default 10000 expansions).
func WithStepLimit(n int) Option {
	return func(g *Graph) {
		g.runtimeOpts = append(g.runtimeOpts, runtime.WithStepLimit(n))
	}
}

// WithNominalVoltage sets the voltage of sources that do not configure one (default 3.3).
func WithNominalVoltage(v float64) Option {
	return func(g *Graph) {
		g.runtimeOpts = append(g.runtimeOpts, runtime.WithNominalVoltage(v))
	}
}

// WithMergeMode selects the junction clustering strategy.
func WithMergeMode(m MergeMode) Option {
	return func(g *Graph) {
		g.runtimeOpts = append(g.runtimeOpts, runtime.WithMergeMode(m))
	}
}

// New creates an empty Graph.
func New(opts ...Option) *Graph {
	g := &Graph{}
	for _, opt := range opts {
		opt(g)
	}

	// Never hand a nil logger to the runtime.
	if g.logger == nil {
		g.logger = logging.NewNop()
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(g.hooks),
		runtime.WithLogger(g.logger),
	}
	runtimeOpts = append(runtimeOpts, g.runtimeOpts...)

	g.runtime = runtime.NewEngine(runtimeOpts...)
	return g
}

// Clear empties the registry.
func (g *Graph) Clear() {
	g.runtime.Clear()
}

// AddElement registers a placed element. It reports false when the element was dropped
// (missing terminal, zero length, unknown kind or duplicate id).
func (g *Graph) AddElement(spec domain.ElementSpec) bool {
	return g.runtime.AddElement(context.Background(), spec)
}

// Load clears the graph and registers every element of the layout.
// It returns the number of dropped elements.
func (g *Graph) Load(ctx context.Context, layout *domain.Layout) int {
	g.runtime.Clear()
	dropped := 0
	for _, spec := range layout.Elements {
		if !g.runtime.AddElement(ctx, spec) {
			dropped++
		}
	}
	return dropped
}

// Simulate analyses the registered elements.
func (g *Graph) Simulate(ctx context.Context) *domain.Result {
	return g.runtime.Simulate(ctx)
}

// IsComplete reports whether at least one closed path exists.
func (g *Graph) IsComplete() bool {
	return g.runtime.IsComplete()
}

// IsVoltmeterConnected reports whether both leads of the voltmeter touch the circuit.
func (g *Graph) IsVoltmeterConnected(id string) bool {
	return g.runtime.IsVoltmeterConnected(id)
}

// Junctions returns the junctions of the current registry.
func (g *Graph) Junctions() []domain.Junction {
	return g.runtime.Junctions().Junctions
}

// Elements returns a copy of the registered elements in insertion order.
func (g *Graph) Elements() []domain.Element {
	src := g.runtime.Registry().Elements()
	out := make([]domain.Element, len(src))
	copy(out, src)
	return out
}

// Run builds a Graph from the layout and simulates it.
func Run(ctx context.Context, layout *domain.Layout, opts ...Option) (*domain.Result, error) {
	if layout == nil {
		return nil, fmt.Errorf("nil layout: %w", domain.ErrInvalidLayout)
	}
	g := New(opts...)
	g.Load(ctx, layout)
	return g.Simulate(ctx), nil
}

// Apply hands every reading of the result to the sink, ordered by element id.
func Apply(res *domain.Result, sink ports.ReadingSink) {
	if res == nil || sink == nil {
		return
	}
	ids := make([]string, 0, len(res.Readings))
	for id := range res.Readings {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		r := res.Readings[id]
		sink.ApplyReading(r.Ref, r)
	}
}
