package ports

import (
	"context"

	"github.com/aretw0/circuitlab/pkg/domain"
)

// LayoutStore defines the interface for persisting sandbox layouts.
type LayoutStore interface {
	// Save persists the layout under the given id, replacing any previous version.
	Save(ctx context.Context, id string, layout *domain.Layout) error

	// Load retrieves the layout for a given id.
	// Returns domain.ErrLayoutNotFound if the layout does not exist.
	Load(ctx context.Context, id string) (*domain.Layout, error)

	// Delete removes the layout for a given id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of every stored layout.
	List(ctx context.Context) ([]string, error)
}
