package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractLayout(id string) *domain.Layout {
	a, b, c := domain.Pt(0, 0), domain.Pt(100, 0), domain.Pt(100, 100)
	off := false
	return &domain.Layout{
		ID:   id,
		Name: "contract",
		Elements: []domain.ElementSpec{
			{ID: "bat", Kind: domain.KindSource, A: &a, B: &b, Voltage: 9},
			{ID: "sw", Kind: domain.KindSwitch, A: &b, B: &c, Enabled: &off},
		},
		UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// RunLayoutStoreContract runs a suite of tests to verify that a LayoutStore implementation
// adheres to the defined interface contract.
func RunLayoutStoreContract(t *testing.T, store LayoutStore) {
	ctx := context.Background()
	layoutID := "contract-test-layout-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		layout := contractLayout(layoutID)

		err := store.Save(ctx, layoutID, layout)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, layoutID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, layout.Name, loaded.Name)
		require.Len(t, loaded.Elements, 2)
		assert.Equal(t, domain.KindSource, loaded.Elements[0].Kind)
		assert.Equal(t, 9.0, loaded.Elements[0].Voltage)
		require.NotNil(t, loaded.Elements[1].B)
		assert.Equal(t, domain.Pt(100, 100), *loaded.Elements[1].B)
		require.NotNil(t, loaded.Elements[1].Enabled)
		assert.False(t, *loaded.Elements[1].Enabled)
		assert.True(t, layout.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Load returns an independent copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, layoutID)
		require.NoError(t, err)
		loaded.Elements[0].A.X = 999

		again, err := store.Load(ctx, layoutID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, again.Elements[0].A.X)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+layoutID)
		assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, layoutID, contractLayout(layoutID))
		require.NoError(t, err)

		err = store.Delete(ctx, layoutID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, layoutID)
		assert.ErrorIs(t, err, domain.ErrLayoutNotFound, "Load after Delete should return ErrLayoutNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := layoutID + "-1"
		id2 := layoutID + "-2"
		_ = store.Save(ctx, id1, contractLayout(id1))
		_ = store.Save(ctx, id2, contractLayout(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunChallengeCatalogContract verifies a ChallengeCatalog that was seeded with the
// challenge knownID and nothing under "missing-challenge".
func RunChallengeCatalogContract(t *testing.T, catalog ChallengeCatalog, knownID string) {
	ctx := context.Background()

	t.Run("Get", func(t *testing.T) {
		ch, err := catalog.Get(ctx, knownID)
		require.NoError(t, err)
		assert.Equal(t, knownID, ch.ID)
		assert.NotEmpty(t, ch.Title)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := catalog.Get(ctx, "missing-challenge")
		assert.ErrorIs(t, err, domain.ErrChallengeNotFound)
	})

	t.Run("List is sorted", func(t *testing.T) {
		list, err := catalog.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, list)

		found := false
		for i, ch := range list {
			if ch.ID == knownID {
				found = true
			}
			if i > 0 {
				assert.LessOrEqual(t, list[i-1].ID, ch.ID)
			}
		}
		assert.True(t, found, "List should include %s", knownID)
	})
}

// RunChallengeEditorContract verifies the write operations of an editable catalog.
// It creates, updates and deletes challenges under the "contract-" id prefix.
func RunChallengeEditorContract(t *testing.T, editor ChallengeEditor) {
	ctx := context.Background()
	id := "contract-" + time.Now().Format("20060102150405")

	t.Run("Create", func(t *testing.T) {
		err := editor.Create(ctx, &domain.Challenge{ID: id, Title: "Contract", Goal: domain.Goal{LitLamps: 1}})
		require.NoError(t, err)

		ch, err := editor.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Contract", ch.Title)
		assert.Equal(t, 1, ch.Goal.LitLamps)
	})

	t.Run("Create Duplicate", func(t *testing.T) {
		err := editor.Create(ctx, &domain.Challenge{ID: id, Title: "Again"})
		assert.ErrorIs(t, err, domain.ErrChallengeExists)
	})

	t.Run("Update", func(t *testing.T) {
		err := editor.Update(ctx, &domain.Challenge{ID: id, Title: "Renamed", Goal: domain.Goal{MinPaths: 2}})
		require.NoError(t, err)

		ch, err := editor.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", ch.Title)
		assert.Equal(t, 2, ch.Goal.MinPaths)
		assert.Zero(t, ch.Goal.LitLamps)
	})

	t.Run("Update Non-Existent", func(t *testing.T) {
		err := editor.Update(ctx, &domain.Challenge{ID: "missing-" + id, Title: "Ghost"})
		assert.ErrorIs(t, err, domain.ErrChallengeNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, editor.Delete(ctx, id))

		_, err := editor.Get(ctx, id)
		assert.ErrorIs(t, err, domain.ErrChallengeNotFound)
		assert.ErrorIs(t, editor.Delete(ctx, id), domain.ErrChallengeNotFound)
	})
}

// RunLeaderboardContract verifies a Leaderboard implementation against an empty board.
func RunLeaderboardContract(t *testing.T, board Leaderboard) {
	ctx := context.Background()
	challengeID := "contract-board-" + time.Now().Format("20060102150405")
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	record := func(player string, points, elements int) bool {
		changed, err := board.Record(ctx, domain.Score{
			ChallengeID: challengeID,
			Player:      player,
			Points:      points,
			Elements:    elements,
			RecordedAt:  at,
		})
		require.NoError(t, err)
		return changed
	}

	t.Run("Empty", func(t *testing.T) {
		top, err := board.Top(ctx, challengeID, 10)
		require.NoError(t, err)
		assert.Empty(t, top)
	})

	t.Run("Record keeps the best score", func(t *testing.T) {
		assert.True(t, record("ada", 900, 10))
		assert.True(t, record("grace", 950, 5))
		assert.False(t, record("ada", 800, 20), "a worse score must not replace the best")
		assert.True(t, record("ada", 980, 2))
		assert.True(t, record("linus", 700, 30))
	})

	t.Run("Top is ordered best first", func(t *testing.T) {
		top, err := board.Top(ctx, challengeID, 10)
		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.Equal(t, "ada", top[0].Player)
		assert.Equal(t, 980, top[0].Points)
		assert.Equal(t, 2, top[0].Elements)
		assert.Equal(t, challengeID, top[0].ChallengeID)
		assert.True(t, at.Equal(top[0].RecordedAt))
		assert.Equal(t, "grace", top[1].Player)
		assert.Equal(t, "linus", top[2].Player)
	})

	t.Run("Top honors the limit", func(t *testing.T) {
		top, err := board.Top(ctx, challengeID, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "grace", top[1].Player)
	})

	t.Run("Boards are per challenge", func(t *testing.T) {
		top, err := board.Top(ctx, "other-"+challengeID, 10)
		require.NoError(t, err)
		assert.Empty(t, top)
	})
}
