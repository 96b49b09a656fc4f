package sandbox_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/pkg/adapters/memory"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/dsl"
	"github.com/aretw0/circuitlab/pkg/ports"
	"github.com/aretw0/circuitlab/pkg/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore simulates latency to provoke lost updates if locking is missing.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Load(ctx context.Context, id string) (*domain.Layout, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func (s slowStore) Save(ctx context.Context, id string, l *domain.Layout) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, id, l)
}

func loop() *domain.Layout {
	b := dsl.New("loop")
	b.Source("bat", domain.Pt(0, 0), domain.Pt(100, 0))
	b.Wire("w1", domain.Pt(100, 0), domain.Pt(100, 100))
	b.Lamp("bulb", domain.Pt(100, 100), domain.Pt(0, 100))
	b.Wire("w2", domain.Pt(0, 100), domain.Pt(0, 0))
	return b.Layout()
}

func TestManager_UpdateSerializesWrites(t *testing.T) {
	mgr := sandbox.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	require.NoError(t, mgr.Save(ctx, "shared", &domain.Layout{}))

	var wg sync.WaitGroup
	writers := 20
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := mgr.Update(ctx, "shared", func(l *domain.Layout) error {
				a, b := domain.Pt(float64(i*10), 0), domain.Pt(float64(i*10), 100)
				l.Elements = append(l.Elements, domain.ElementSpec{
					ID: fmt.Sprintf("w%d", i), Kind: domain.KindWire, A: &a, B: &b,
				})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	l, err := mgr.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, l.Elements, writers, "no update may be lost")
}

func TestManager_SaveValidatesAndStamps(t *testing.T) {
	stamp := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	mgr := sandbox.NewManager(memory.NewStore(), sandbox.WithClock(func() time.Time { return stamp }))
	ctx := context.Background()

	l := loop()
	require.NoError(t, mgr.Save(ctx, "s1", l))

	loaded, err := mgr.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", loaded.ID)
	assert.True(t, stamp.Equal(loaded.UpdatedAt))
	assert.Equal(t, time.UTC, loaded.UpdatedAt.Location())

	bad := &domain.Layout{Elements: []domain.ElementSpec{{Kind: "magnet"}}}
	assert.ErrorIs(t, mgr.Save(ctx, "s2", bad), domain.ErrInvalidLayout)
	_, err = mgr.Load(ctx, "s2")
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
}

func TestManager_UpdateErrors(t *testing.T) {
	mgr := sandbox.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := mgr.Update(ctx, "missing", func(l *domain.Layout) error { return nil })
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)

	require.NoError(t, mgr.Save(ctx, "s", loop()))
	boom := errors.New("boom")
	_, err = mgr.Update(ctx, "s", func(l *domain.Layout) error { return boom })
	assert.ErrorIs(t, err, boom)

	_, err = mgr.Update(ctx, "s", func(l *domain.Layout) error {
		l.Elements[0].Kind = "magnet"
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLayout)

	l, err := mgr.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, domain.KindSource, l.Elements[0].Kind, "rejected updates leave the stored layout untouched")
}

func TestManager_Simulate(t *testing.T) {
	mgr := sandbox.NewManager(memory.NewStore(), sandbox.WithGraphOptions(circuitlab.WithNominalVoltage(5)))
	ctx := context.Background()

	created, err := mgr.Create(ctx, loop())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	res, err := mgr.Simulate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, res.Status)
	assert.InDelta(t, 5, res.Voltage, 1e-9)

	_, err = mgr.Simulate(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)

	require.NoError(t, mgr.Delete(ctx, created.ID))
	_, err = mgr.Simulate(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
}

func TestManager_FromChallenge(t *testing.T) {
	mgr := sandbox.NewManager(memory.NewStore())
	ch := &domain.Challenge{ID: "c1", Title: "Light it", Starter: loop().Elements[:2]}

	l, err := mgr.FromChallenge(context.Background(), ch)
	require.NoError(t, err)
	assert.Equal(t, "Light it", l.Name)
	assert.Len(t, l.Elements, 2)
}

type countingLocker struct {
	mu       sync.Mutex
	locks    int
	unlocks  int
	fail     error
	unlockFn func() error
}

func (c *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if c.fail != nil {
		return nil, c.fail
	}
	c.mu.Lock()
	c.locks++
	c.mu.Unlock()
	return func(ctx context.Context) error {
		c.mu.Lock()
		c.unlocks++
		c.mu.Unlock()
		if c.unlockFn != nil {
			return c.unlockFn()
		}
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("Every operation is wrapped", func(t *testing.T) {
		locker := &countingLocker{unlockFn: func() error { return errors.New("expired") }}
		mgr := sandbox.NewManager(memory.NewStore(), sandbox.WithLocker(locker), sandbox.WithLockTTL(time.Second))

		require.NoError(t, mgr.Save(ctx, "s", loop()))
		_, err := mgr.Load(ctx, "s")
		require.NoError(t, err)
		require.NoError(t, mgr.Delete(ctx, "s"))

		assert.Equal(t, 3, locker.locks)
		assert.Equal(t, 3, locker.unlocks)
	})

	t.Run("Lock failure aborts", func(t *testing.T) {
		locker := &countingLocker{fail: errors.New("redis down")}
		mgr := sandbox.NewManager(memory.NewStore(), sandbox.WithLocker(locker))

		err := mgr.Save(ctx, "s", loop())
		assert.ErrorContains(t, err, "failed to acquire distributed lock")
		ids, _ := mgr.List(ctx)
		assert.Empty(t, ids)
	})
}
