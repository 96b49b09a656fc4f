package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/layout"
	"github.com/aretw0/circuitlab/pkg/ports"
)

// ValidateCatalog checks every challenge in the catalog: starter layouts must be valid
// and goals must be satisfiable on their face.
func ValidateCatalog(ctx context.Context, catalog ports.ChallengeCatalog) error {
	challenges, err := catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list challenges: %w", err)
	}

	var errors []string
	for _, ch := range challenges {
		for _, problem := range ValidateChallenge(ch) {
			errors = append(errors, fmt.Sprintf("%s: %s", ch.ID, problem))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

// ValidateChallenge returns the problems found in one challenge.
func ValidateChallenge(ch domain.Challenge) []string {
	var problems []string
	if strings.TrimSpace(ch.Title) == "" {
		problems = append(problems, "missing title")
	}

	if len(ch.Starter) > 0 {
		starter := &domain.Layout{ID: ch.ID, Elements: ch.Starter}
		if err := layout.Validate(starter); err != nil {
			problems = append(problems, fmt.Sprintf("starter: %v", err))
		}
	}

	g := ch.Goal
	if st := g.ExpectedStatus(); st < domain.StatusSwitchOpen || st > domain.StatusComplete {
		problems = append(problems, fmt.Sprintf("goal status %d is out of range", int(st)))
	}
	if g.MinPaths < 0 || g.LitLamps < 0 || g.MaxElements < 0 {
		problems = append(problems, "goal counts must not be negative")
	}
	if g.ExpectedStatus() != domain.StatusComplete && (g.MinPaths > 0 || g.LitLamps > 0) {
		problems = append(problems, fmt.Sprintf("goal asks for paths or lit lamps but expects %s", g.ExpectedStatus()))
	}
	for _, k := range g.RequireKinds {
		if !k.Valid() {
			problems = append(problems, fmt.Sprintf("goal requires unknown kind %q", k))
		}
	}
	if g.MaxElements > 0 {
		if len(ch.Starter) > g.MaxElements {
			problems = append(problems, fmt.Sprintf("starter has %d elements but the goal allows %d", len(ch.Starter), g.MaxElements))
		}
		if len(g.RequireKinds) > g.MaxElements {
			problems = append(problems, fmt.Sprintf("goal requires %d kinds but allows %d elements", len(g.RequireKinds), g.MaxElements))
		}
	}
	return problems
}
