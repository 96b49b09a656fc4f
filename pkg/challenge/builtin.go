package challenge

import "github.com/aretw0/circuitlab/pkg/domain"

func statusPtr(s domain.Status) *domain.Status { return &s }

func pt(x, y float64) *domain.Point {
	p := domain.Pt(x, y)
	return &p
}

// Builtin returns the challenges shipped with the binary. They are served when no
// challenge directory is configured.
func Builtin() []domain.Challenge {
	return []domain.Challenge{
		{
			ID:          "01-first-light",
			Title:       "First light",
			Description: "Connect the battery to the lamp with wires so the lamp turns on.",
			Goal:        domain.Goal{LitLamps: 1, RequireKinds: []domain.Kind{domain.KindLamp}},
			Starter: []domain.ElementSpec{
				{ID: "battery", Kind: domain.KindSource, A: pt(0, 0), B: pt(100, 0)},
				{ID: "lamp", Kind: domain.KindLamp, A: pt(100, 200), B: pt(0, 200)},
			},
		},
		{
			ID:          "02-light-switch",
			Title:       "Light switch",
			Description: "Add a switch to the loop and leave it open: the lamp must be off.",
			Goal: domain.Goal{
				Status:       statusPtr(domain.StatusSwitchOpen),
				RequireKinds: []domain.Kind{domain.KindSwitch, domain.KindLamp},
			},
		},
		{
			ID:          "03-parallel",
			Title:       "Two ways home",
			Description: "Build a circuit with two independent paths back to the battery.",
			Goal:        domain.Goal{MinPaths: 2},
		},
		{
			ID:          "04-measure",
			Title:       "Measure it",
			Description: "Light a lamp and put an ammeter in series so it reads the current, without burning anything.",
			Goal: domain.Goal{
				LitLamps:     1,
				RequireKinds: []domain.Kind{domain.KindAmmeter},
				NoBurnout:    true,
			},
		},
		{
			ID:          "05-minimal",
			Title:       "Less is more",
			Description: "Light a lamp using at most four elements.",
			Goal:        domain.Goal{LitLamps: 1, MaxElements: 4},
		},
	}
}
