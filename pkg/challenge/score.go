package challenge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/ports"
)

const (
	// MaxPoints is awarded to a solution with no elements besides the goal itself.
	MaxPoints = 1000
	// MinPoints is the floor for any passing solution.
	MinPoints = 100
	// ElementCost is deducted per element in the solution.
	ElementCost = 10
)

// Points scores a passing solution: smaller circuits score higher.
func Points(elements int) int {
	p := MaxPoints - ElementCost*elements
	if p < MinPoints {
		return MinPoints
	}
	return p
}

// Record puts a passing verdict on the leaderboard under player.
// Failed verdicts are ignored and report false; a blank player is an error.
func Record(ctx context.Context, board ports.Leaderboard, v *Verdict, player string) (bool, error) {
	if v == nil || !v.Passed {
		return false, nil
	}
	player = strings.TrimSpace(player)
	if player == "" {
		return false, fmt.Errorf("player name is required")
	}

	elements := 0
	if v.Result != nil {
		elements = len(v.Result.Readings)
	}
	return board.Record(ctx, domain.Score{
		ChallengeID: v.ChallengeID,
		Player:      player,
		Points:      v.Points,
		Elements:    elements,
		RecordedAt:  time.Now().UTC(),
	})
}
