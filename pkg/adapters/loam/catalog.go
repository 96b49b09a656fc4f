package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/loam"
)

// Catalog adapts a Loam repository of challenge documents to ports.ChallengeCatalog.
// Every document is one challenge: frontmatter holds the goal and starter elements,
// the body is the description shown to learners.
type Catalog struct {
	Repo *loam.TypedRepository[ChallengeMetadata]
}

// New creates a new Loam catalog adapter.
func New(repo *loam.TypedRepository[ChallengeMetadata]) *Catalog {
	return &Catalog{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir and wraps it in a Catalog.
func Open(dir string) (*Catalog, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers consistent (json.Number) across JSON and YAML documents.
	// The catalog never writes, so the repository is opened read-only.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ChallengeMetadata](repo)), nil
}

// Get returns the challenge with the given id.
// Ids are matched after normalization, so "intro" finds both "intro.md" and a document
// whose frontmatter says id: intro.
func (c *Catalog) Get(ctx context.Context, id string) (*domain.Challenge, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	want := trimExtension(id)
	for i := range all {
		if all[i].ID == want {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrChallengeNotFound, id)
}

// List returns every challenge ordered by id.
func (c *Catalog) List(ctx context.Context) ([]domain.Challenge, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	out := make([]domain.Challenge, 0, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: challenge '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		ch, err := toChallenge(id, doc.Data, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("challenge %s: %w", id, err)
		}
		out = append(out, ch)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func toChallenge(id string, meta ChallengeMetadata, body string) (domain.Challenge, error) {
	ch := domain.Challenge{
		ID:          id,
		Title:       meta.Title,
		Description: strings.TrimSpace(body),
		Starter:     meta.Starter,
		Goal: domain.Goal{
			MinPaths:    meta.Goal.MinPaths,
			LitLamps:    meta.Goal.LitLamps,
			MaxElements: meta.Goal.MaxElements,
			NoBurnout:   meta.Goal.NoBurnout,
		},
	}
	if ch.Title == "" {
		ch.Title = id
	}
	if ch.Description == "" {
		ch.Description = meta.Description
	}

	if meta.Goal.Status != nil {
		st, err := domain.ParseStatus(fmt.Sprint(meta.Goal.Status))
		if err != nil {
			return domain.Challenge{}, fmt.Errorf("goal.status: %w", err)
		}
		ch.Goal.Status = &st
	}
	for _, raw := range meta.Goal.RequireKinds {
		k, err := domain.ParseKind(raw)
		if err != nil {
			return domain.Challenge{}, fmt.Errorf("goal.require_kinds: %w", err)
		}
		ch.Goal.RequireKinds = append(ch.Goal.RequireKinds, k)
	}
	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
