package ports

import (
	"context"

	"github.com/aretw0/circuitlab/pkg/domain"
)

// ChallengeCatalog serves the set of challenges.
type ChallengeCatalog interface {
	// Get returns the challenge with the given id.
	// Returns domain.ErrChallengeNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Challenge, error)

	// List returns every challenge, ordered by id.
	List(ctx context.Context) ([]domain.Challenge, error)
}

// ChallengeEditor is a catalog that accepts writes.
// Catalogs backed by authored documents (loam) do not implement it.
type ChallengeEditor interface {
	ChallengeCatalog

	// Create adds a new challenge. Returns domain.ErrChallengeExists if the id is taken.
	Create(ctx context.Context, ch *domain.Challenge) error

	// Update replaces an existing challenge. Returns domain.ErrChallengeNotFound if missing.
	Update(ctx context.Context, ch *domain.Challenge) error

	// Delete removes a challenge. Returns domain.ErrChallengeNotFound if missing.
	Delete(ctx context.Context, id string) error
}

// Leaderboard ranks players per challenge.
type Leaderboard interface {
	// Record stores the score if it beats the player's previous best on that challenge.
	// It reports whether the stored entry changed.
	Record(ctx context.Context, score domain.Score) (bool, error)

	// Top returns up to limit entries for the challenge, best first.
	// The order of entries with equal points is up to the adapter.
	Top(ctx context.Context, challengeID string, limit int) ([]domain.Score, error)
}
