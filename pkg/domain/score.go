package domain

import "time"

// Score is one leaderboard entry: the best passing attempt of a player on a challenge.
type Score struct {
	ChallengeID string    `json:"challenge_id"`
	Player      string    `json:"player"`
	Points      int       `json:"points"`
	Elements    int       `json:"elements"`
	RecordedAt  time.Time `json:"recorded_at"`
}
