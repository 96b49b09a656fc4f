package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/circuitlab/pkg/domain"
)

// Leaderboard implements ports.Leaderboard in memory, keeping each player's best score.
type Leaderboard struct {
	mu     sync.RWMutex
	boards map[string]map[string]domain.Score // challenge id -> player -> best
}

// NewLeaderboard creates an empty leaderboard.
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{boards: make(map[string]map[string]domain.Score)}
}

// Record stores the score when it beats the player's previous best.
func (l *Leaderboard) Record(ctx context.Context, score domain.Score) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	board, ok := l.boards[score.ChallengeID]
	if !ok {
		board = make(map[string]domain.Score)
		l.boards[score.ChallengeID] = board
	}
	if best, ok := board[score.Player]; ok && best.Points >= score.Points {
		return false, nil
	}
	board[score.Player] = score
	return true, nil
}

// Top returns the best entries of a challenge, ties ordered by player name.
func (l *Leaderboard) Top(ctx context.Context, challengeID string, limit int) ([]domain.Score, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	board := l.boards[challengeID]
	out := make([]domain.Score, 0, len(board))
	for _, s := range board {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Player < out[j].Player
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
