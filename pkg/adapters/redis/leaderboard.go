package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/circuitlab/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Leaderboard implements ports.Leaderboard with one sorted set per challenge.
// Members are player names scored by points; the full entries live in a hash next to
// the set (prefix+challengeID+":entries").
type Leaderboard struct {
	client *backend.Client
	prefix string
}

// NewLeaderboard creates a leaderboard on an existing client.
// An empty prefix defaults to "circuitlab:leaderboard:".
func NewLeaderboard(client *backend.Client, prefix string) *Leaderboard {
	if prefix == "" {
		prefix = "circuitlab:leaderboard:"
	}
	return &Leaderboard{client: client, prefix: prefix}
}

func (l *Leaderboard) rankKey(challengeID string) string {
	return l.prefix + challengeID
}

func (l *Leaderboard) entriesKey(challengeID string) string {
	return l.prefix + challengeID + ":entries"
}

// Record stores the score when it beats the player's previous best.
func (l *Leaderboard) Record(ctx context.Context, score domain.Score) (bool, error) {
	best, err := l.client.ZScore(ctx, l.rankKey(score.ChallengeID), score.Player).Result()
	switch {
	case errors.Is(err, backend.Nil):
	case err != nil:
		return false, fmt.Errorf("failed to read score: %w", err)
	case best >= float64(score.Points):
		return false, nil
	}

	data, err := json.Marshal(score)
	if err != nil {
		return false, fmt.Errorf("failed to marshal score: %w", err)
	}

	_, err = l.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.ZAdd(ctx, l.rankKey(score.ChallengeID), backend.Z{Score: float64(score.Points), Member: score.Player})
		pipe.HSet(ctx, l.entriesKey(score.ChallengeID), score.Player, data)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to record score: %w", err)
	}
	return true, nil
}

// Top returns the best entries of a challenge. A limit <= 0 returns every entry.
func (l *Leaderboard) Top(ctx context.Context, challengeID string, limit int) ([]domain.Score, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ranked, err := l.client.ZRevRangeWithScores(ctx, l.rankKey(challengeID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	if len(ranked) == 0 {
		return []domain.Score{}, nil
	}

	players := make([]string, len(ranked))
	for i, z := range ranked {
		players[i], _ = z.Member.(string)
	}
	raw, err := l.client.HMGet(ctx, l.entriesKey(challengeID), players...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard entries: %w", err)
	}

	out := make([]domain.Score, len(ranked))
	for i, z := range ranked {
		s := domain.Score{ChallengeID: challengeID, Player: players[i]}
		if str, ok := raw[i].(string); ok {
			if err := json.Unmarshal([]byte(str), &s); err != nil {
				return nil, fmt.Errorf("failed to unmarshal score of %s: %w", players[i], err)
			}
		}
		s.Points = int(z.Score)
		out[i] = s
	}
	return out, nil
}
