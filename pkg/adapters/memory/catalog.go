package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/circuitlab/pkg/domain"
)

// Catalog implements ports.ChallengeEditor in memory.
type Catalog struct {
	mu         sync.RWMutex
	challenges map[string]domain.Challenge
}

// NewCatalog creates a catalog from domain objects. Duplicate ids are rejected.
func NewCatalog(challenges ...domain.Challenge) (*Catalog, error) {
	c := &Catalog{challenges: make(map[string]domain.Challenge, len(challenges))}
	for _, ch := range challenges {
		if ch.ID == "" {
			return nil, fmt.Errorf("challenge %q has no id", ch.Title)
		}
		if _, dup := c.challenges[ch.ID]; dup {
			return nil, fmt.Errorf("duplicate challenge id %q", ch.ID)
		}
		c.challenges[ch.ID] = cloneChallenge(ch)
	}
	return c, nil
}

// Get returns the challenge with the given id.
func (c *Catalog) Get(ctx context.Context, id string) (*domain.Challenge, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ch, ok := c.challenges[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrChallengeNotFound, id)
	}
	out := cloneChallenge(ch)
	return &out, nil
}

// List returns every challenge ordered by id.
func (c *Catalog) List(ctx context.Context) ([]domain.Challenge, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Challenge, 0, len(c.challenges))
	for _, ch := range c.challenges {
		out = append(out, cloneChallenge(ch))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create adds a challenge under a new id.
func (c *Catalog) Create(ctx context.Context, ch *domain.Challenge) error {
	if ch == nil || ch.ID == "" {
		return fmt.Errorf("%w: missing id", domain.ErrInvalidChallenge)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.challenges[ch.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrChallengeExists, ch.ID)
	}
	c.challenges[ch.ID] = cloneChallenge(*ch)
	return nil
}

// Update replaces an existing challenge.
func (c *Catalog) Update(ctx context.Context, ch *domain.Challenge) error {
	if ch == nil || ch.ID == "" {
		return fmt.Errorf("%w: missing id", domain.ErrInvalidChallenge)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.challenges[ch.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrChallengeNotFound, ch.ID)
	}
	c.challenges[ch.ID] = cloneChallenge(*ch)
	return nil
}

// Delete removes a challenge.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.challenges[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrChallengeNotFound, id)
	}
	delete(c.challenges, id)
	return nil
}

func cloneChallenge(ch domain.Challenge) domain.Challenge {
	l := (&domain.Layout{Elements: ch.Starter}).Clone()
	ch.Starter = l.Elements
	if len(ch.Starter) == 0 {
		ch.Starter = nil
	}
	if ch.Goal.Status != nil {
		st := *ch.Goal.Status
		ch.Goal.Status = &st
	}
	ch.Goal.RequireKinds = append([]domain.Kind(nil), ch.Goal.RequireKinds...)
	return ch
}
