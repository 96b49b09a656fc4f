package loam_test

import (
	"context"
	"testing"

	"github.com/aretw0/circuitlab/internal/testutils"
	loamadapter "github.com/aretw0/circuitlab/pkg/adapters/loam"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/ports"
	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firstLight = `---
title: First light
goal:
  lit_lamps: 1
  require_kinds: [lamp]
starter:
  - id: battery
    kind: source
    a: {x: 0, y: 0}
    b: {x: 100, y: 0}
---
Connect the battery to the lamp.
`

const switchOff = `---
id: switch-off
title: Switch it off
goal:
  status: switch_open
---
Leave the switch open.
`

func TestCatalog_Contract(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{"first-light.md": firstLight, "second.md": switchOff})
	catalog, err := loamadapter.Open(dir)
	require.NoError(t, err)

	ports.RunChallengeCatalogContract(t, catalog, "first-light")
}

func TestCatalog_Decoding(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{"first-light.md": firstLight, "second.md": switchOff})
	catalog, err := loamadapter.Open(dir)
	require.NoError(t, err)
	ctx := context.Background()

	ch, err := catalog.Get(ctx, "first-light.md")
	require.NoError(t, err)
	assert.Equal(t, "First light", ch.Title)
	assert.Equal(t, "Connect the battery to the lamp.", ch.Description)
	assert.Equal(t, 1, ch.Goal.LitLamps)
	assert.Equal(t, []domain.Kind{domain.KindLamp}, ch.Goal.RequireKinds)
	assert.Equal(t, domain.StatusComplete, ch.Goal.ExpectedStatus())
	require.Len(t, ch.Starter, 1)
	assert.Equal(t, domain.KindSource, ch.Starter[0].Kind)
	require.NotNil(t, ch.Starter[0].B)
	assert.Equal(t, 100.0, ch.Starter[0].B.X)

	sw, err := catalog.Get(ctx, "switch-off")
	require.NoError(t, err, "frontmatter id wins over the file name")
	assert.Equal(t, domain.StatusSwitchOpen, sw.Goal.ExpectedStatus())

	list, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first-light", list[0].ID)
	assert.Equal(t, "switch-off", list[1].ID)
}

func TestCatalog_NumericStatus(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{"open.md": "---\ntitle: Open\ngoal:\n  status: 0\n---\nBreak it.\n"})
	catalog, err := loamadapter.Open(dir)
	require.NoError(t, err)

	ch, err := catalog.Get(context.Background(), "open")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, ch.Goal.ExpectedStatus())
}

func TestCatalog_Errors(t *testing.T) {
	t.Run("Bad kind", func(t *testing.T) {
		dir := testutils.WriteFiles(t, map[string]string{"bad.md": "---\ntitle: Bad\ngoal:\n  require_kinds: [magnet]\n---\n"})
		catalog, err := loamadapter.Open(dir)
		require.NoError(t, err)

		_, err = catalog.List(context.Background())
		assert.ErrorContains(t, err, "require_kinds")
	})

	t.Run("Collision", func(t *testing.T) {
		dir := testutils.WriteFiles(t, map[string]string{
			"a.md": "---\nid: same\ntitle: A\n---\n",
			"b.md": "---\nid: same\ntitle: B\n---\n",
		})
		catalog, err := loamadapter.Open(dir)
		require.NoError(t, err)

		_, err = catalog.List(context.Background())
		assert.ErrorContains(t, err, "collision detected")
	})
}

func TestCatalog_FromRepository(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t,
		map[string]string{"first-light.md": firstLight},
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	catalog := loamadapter.New(loam.NewTypedRepository[loamadapter.ChallengeMetadata](repo))

	list, err := catalog.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "First light", list[0].Title)
}
