// Package challenge grades sandbox layouts against challenge goals.
package challenge

import (
	"context"
	"fmt"

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/pkg/domain"
)

// Verdict is the outcome of checking a layout against a challenge.
type Verdict struct {
	ChallengeID string         `json:"challenge_id"`
	Passed      bool           `json:"passed"`
	Failures    []string       `json:"failures,omitempty"`
	Points      int            `json:"points,omitempty"`
	Result      *domain.Result `json:"result"`
}

// Check simulates the layout and evaluates every constraint of the challenge goal.
// All failed constraints are reported, not just the first.
func Check(ctx context.Context, ch *domain.Challenge, l *domain.Layout, opts ...circuitlab.Option) (*Verdict, error) {
	if ch == nil {
		return nil, fmt.Errorf("nil challenge: %w", domain.ErrChallengeNotFound)
	}
	res, err := circuitlab.Run(ctx, l, opts...)
	if err != nil {
		return nil, err
	}

	v := &Verdict{ChallengeID: ch.ID, Result: res}
	goal := ch.Goal

	if want := goal.ExpectedStatus(); res.Status != want {
		v.fail("expected the circuit to be %s, got %s", want, res.Status)
	}
	if goal.MinPaths > 0 && len(res.Paths) < goal.MinPaths {
		v.fail("expected at least %d closed paths, found %d", goal.MinPaths, len(res.Paths))
	}

	present := make(map[domain.Kind]bool)
	lit, burnt := 0, 0
	for _, r := range res.Readings {
		present[r.Kind] = true
		if r.Kind == domain.KindLamp && r.On {
			lit++
		}
		if r.BurntOut {
			burnt++
		}
	}
	for _, k := range goal.RequireKinds {
		if !present[k] {
			v.fail("the circuit needs at least one %s", k)
		}
	}
	if goal.LitLamps > 0 && lit < goal.LitLamps {
		v.fail("expected %d lit lamps, got %d", goal.LitLamps, lit)
	}
	if goal.MaxElements > 0 && len(res.Readings) > goal.MaxElements {
		v.fail("use at most %d elements, the circuit has %d", goal.MaxElements, len(res.Readings))
	}
	if goal.NoBurnout && burnt > 0 {
		v.fail("%d element(s) burnt out", burnt)
	}

	v.Passed = len(v.Failures) == 0
	if v.Passed {
		v.Points = Points(len(res.Readings))
	}
	return v, nil
}

func (v *Verdict) fail(format string, args ...any) {
	v.Failures = append(v.Failures, fmt.Sprintf(format, args...))
}
