package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Status summarizes the outcome of a simulation pass.
type Status int

const (
	// StatusSwitchOpen: no path and at least one switch is disabled (best-effort diagnosis).
	StatusSwitchOpen Status = -2
	// StatusNoSource: no source element was registered.
	StatusNoSource Status = -1
	// StatusOpen: a source exists but no conducting path closes the loop.
	StatusOpen Status = 0
	// StatusComplete: at least one conducting path was found.
	StatusComplete Status = 1
)

func (s Status) String() string {
	switch s {
	case StatusSwitchOpen:
		return "switch_open"
	case StatusNoSource:
		return "no_source"
	case StatusOpen:
		return "open"
	case StatusComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ParseStatus accepts a status name ("complete", "open", "no_source", "switch_open") or
// its numeric code.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, st := range []Status{StatusComplete, StatusOpen, StatusNoSource, StatusSwitchOpen} {
		if s == st.String() {
			return st, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= int(StatusSwitchOpen) && n <= int(StatusComplete) {
		return Status(n), nil
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Path is an ordered, non-repeating sequence of conducting elements from the source's
// first terminal to its second.
type Path []Element

// IDs returns the element ids along the path.
func (p Path) IDs() []string {
	ids := make([]string, len(p))
	for i, e := range p {
		ids[i] = e.ID
	}
	return ids
}

// Reading is what the host applies to one element after a simulation.
type Reading struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"kind"`
	OnPath   bool    `json:"on_path"`
	On       bool    `json:"on,omitempty"`
	Current  float64 `json:"current"`
	Voltage  float64 `json:"voltage"`
	BurntOut bool    `json:"burnt_out,omitempty"`
	Ref      any     `json:"-"`
}

// Result is the outcome of one simulation pass.
type Result struct {
	Status   Status             `json:"status"`
	Paths    []Path             `json:"paths"`
	Readings map[string]Reading `json:"readings"`

	// Voltage and Current are the lumped values derived from the found paths.
	Voltage float64 `json:"voltage"`
	Current float64 `json:"current"`

	// Truncated is set when the step limit aborted the search; Paths may be incomplete.
	Truncated bool `json:"truncated,omitempty"`
	Steps     int  `json:"steps"`
}

// Complete reports whether at least one conducting path was found.
func (r *Result) Complete() bool {
	return r != nil && len(r.Paths) > 0
}

// PathIDs flattens Paths into element ids.
func (r *Result) PathIDs() [][]string {
	out := make([][]string, len(r.Paths))
	for i, p := range r.Paths {
		out[i] = p.IDs()
	}
	return out
}
