package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/circuitlab/internal/logging"
	"github.com/aretw0/circuitlab/pkg/domain"
)

// Engine is the circuit graph: a registry plus the analysis pipeline run over it.
// It is not safe for concurrent use; callers serialize Clear/Add/Simulate.
type Engine struct {
	registry *Registry

	snapThreshold  float64
	stepLimit      int
	nominalVoltage float64
	mergeMode      MergeMode

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithSnapThreshold sets the junction merge distance.
func WithSnapThreshold(d float64) EngineOption {
	return func(e *Engine) {
		if d >= 0 {
			e.snapThreshold = d
		}
	}
}

// WithStepLimit sets the BFS expansion cap.
func WithStepLimit(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.stepLimit = n
		}
	}
}

// WithNominalVoltage sets the voltage used for sources without a configured voltage.
func WithNominalVoltage(v float64) EngineOption {
	return func(e *Engine) {
		if v > 0 {
			e.nominalVoltage = v
		}
	}
}

// WithMergeMode selects the junction clustering strategy.
func WithMergeMode(m MergeMode) EngineOption {
	return func(e *Engine) {
		e.mergeMode = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine with an empty registry.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		registry:       NewRegistry(),
		snapThreshold:  domain.DefaultSnapThreshold,
		stepLimit:      domain.DefaultStepLimit,
		nominalVoltage: domain.DefaultNominalVoltage,
		mergeMode:      MergeSinglePass,
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clear empties the registry.
func (e *Engine) Clear() {
	e.registry.Clear()
}

// AddElement registers an element. Invalid input is dropped with a diagnostic and
// reported as false; it is never an error.
func (e *Engine) AddElement(ctx context.Context, spec domain.ElementSpec) bool {
	_, reason := e.registry.Add(spec)
	if reason == "" {
		return true
	}

	e.logger.Warn("element dropped", "element_id", spec.ID, "kind", spec.Kind, "reason", reason)
	if e.hooks.OnElementDropped != nil {
		e.hooks.OnElementDropped(ctx, &domain.DropEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventElementDropped},
			ElementID: spec.ID,
			Kind:      spec.Kind,
			Reason:    reason,
		})
	}
	return false
}

// Registry exposes the current registry for introspection.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Junctions builds the connection map of the current registry.
func (e *Engine) Junctions() *JunctionMap {
	return BuildJunctions(e.registry.Elements(), e.snapThreshold, e.mergeMode)
}

// Simulate runs junction building, path finding and evaluation over the registry.
// ctx is only handed to lifecycle hooks; the search itself is bounded by the step limit.
func (e *Engine) Simulate(ctx context.Context) *domain.Result {
	began := time.Now()
	elements := e.registry.Elements()
	jm := BuildJunctions(elements, e.snapThreshold, e.mergeMode)

	res := e.simulate(ctx, elements, jm)

	e.logger.Debug("simulation finished",
		"status", res.Status.String(),
		"elements", len(elements),
		"junctions", len(jm.Junctions),
		"paths", len(res.Paths),
		"steps", res.Steps,
	)
	if e.hooks.OnSimulate != nil {
		e.hooks.OnSimulate(ctx, &domain.SimulationEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSimulate},
			Status:    res.Status,
			Elements:  len(elements),
			Junctions: len(jm.Junctions),
			Paths:     len(res.Paths),
			Steps:     res.Steps,
			Duration:  time.Since(began),
		})
	}
	return res
}

func (e *Engine) simulate(ctx context.Context, elements []domain.Element, jm *JunctionMap) *domain.Result {
	sources := e.registry.Sources()
	if len(sources) == 0 {
		return &domain.Result{
			Status:   domain.StatusNoSource,
			Paths:    []domain.Path{},
			Readings: Evaluate(elements, jm, nil, Measurement{}),
		}
	}
	if len(sources) > 1 {
		e.logger.Warn("multiple sources registered, using the first", "source_id", sources[0].ID, "count", len(sources))
	}
	source := sources[0]

	search := FindPaths(elements, jm, source, e.stepLimit)
	if search.Truncated {
		e.logger.Warn("path search hit the step limit, results may be incomplete",
			"limit", e.stepLimit,
			"paths_found", len(search.Paths),
		)
		if e.hooks.OnTraversalCapped != nil {
			e.hooks.OnTraversalCapped(ctx, &domain.CapEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTraversalCapped},
				Limit:     e.stepLimit,
				Found:     len(search.Paths),
			})
		}
	}

	voltage := e.nominalVoltage
	if source.Voltage > 0 {
		voltage = source.Voltage
	}
	m := Measure(elements, search.Paths, voltage)

	res := &domain.Result{
		Status:    domain.StatusComplete,
		Paths:     make([]domain.Path, 0, len(search.Paths)),
		Readings:  Evaluate(elements, jm, search.Paths, m),
		Voltage:   m.Voltage,
		Current:   m.Current,
		Truncated: search.Truncated,
		Steps:     search.Steps,
	}
	for _, p := range search.Paths {
		path := make(domain.Path, len(p))
		for i, idx := range p {
			path[i] = elements[idx]
		}
		res.Paths = append(res.Paths, path)
	}

	if len(res.Paths) == 0 {
		res.Status = domain.StatusOpen
		if anySwitchOpen(elements) {
			res.Status = domain.StatusSwitchOpen
		}
	}
	return res
}

func anySwitchOpen(elements []domain.Element) bool {
	for _, el := range elements {
		if el.Kind == domain.KindSwitch && !el.Enabled {
			return true
		}
	}
	return false
}

// IsComplete reports whether the current registry closes at least one conducting path.
func (e *Engine) IsComplete() bool {
	sources := e.registry.Sources()
	if len(sources) == 0 {
		return false
	}
	elements := e.registry.Elements()
	jm := BuildJunctions(elements, e.snapThreshold, e.mergeMode)
	return len(FindPaths(elements, jm, sources[0], e.stepLimit).Paths) > 0
}

// IsVoltmeterConnected reports whether both leads of the voltmeter with the given id
// touch the rest of the circuit. Unknown ids and non-voltmeters report false.
func (e *Engine) IsVoltmeterConnected(id string) bool {
	el, ok := e.registry.Lookup(id)
	if !ok || el.Kind != domain.KindVoltmeter {
		return false
	}
	elements := e.registry.Elements()
	return VoltmeterConnected(elements, BuildJunctions(elements, e.snapThreshold, e.mergeMode), el)
}
