package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSimulate        EventType = "simulate"
	EventElementDropped  EventType = "element_dropped"
	EventTraversalCapped EventType = "traversal_capped"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// SimulationEvent is emitted after every simulation pass.
type SimulationEvent struct {
	EventBase
	Status    Status        `json:"status"`
	Elements  int           `json:"elements"`
	Junctions int           `json:"junctions"`
	Paths     int           `json:"paths"`
	Steps     int           `json:"steps"`
	Duration  time.Duration `json:"duration"`
}

// DropEvent is emitted when the registry rejects an element.
type DropEvent struct {
	EventBase
	ElementID string `json:"element_id,omitempty"`
	Kind      Kind   `json:"kind"`
	Reason    string `json:"reason"`
}

// CapEvent is emitted when path finding hits the step limit.
type CapEvent struct {
	EventBase
	Limit int `json:"limit"`
	Found int `json:"found"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnSimulate        func(context.Context, *SimulationEvent)
	OnElementDropped  func(context.Context, *DropEvent)
	OnTraversalCapped func(context.Context, *CapEvent)
}
