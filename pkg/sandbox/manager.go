package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/internal/logging"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/layout"
	"github.com/aretw0/circuitlab/pkg/ports"
	"github.com/google/uuid"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates sandbox access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.LayoutStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration

	graphOpts []circuitlab.Option
	newID     func() string
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock survives a crashed holder (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithGraphOptions configures the graph used by Simulate.
func WithGraphOptions(opts ...circuitlab.Option) Option {
	return func(m *Manager) {
		m.graphOpts = append(m.graphOpts, opts...)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides the time source used to stamp UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new sandbox Manager on top of the given store.
func NewManager(store ports.LayoutStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		newID:   uuid.NewString,
		now:     time.Now,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Create stores a new sandbox under a fresh id and returns the stored copy.
func (m *Manager) Create(ctx context.Context, l *domain.Layout) (*domain.Layout, error) {
	if l == nil {
		l = &domain.Layout{}
	}
	created := l.Clone()
	created.ID = m.newID()
	if created.Name == "" {
		created.Name = "sandbox"
	}
	if err := m.Save(ctx, created.ID, created); err != nil {
		return nil, err
	}
	return created, nil
}

// FromChallenge creates a sandbox seeded with the challenge's starter elements.
func (m *Manager) FromChallenge(ctx context.Context, ch *domain.Challenge) (*domain.Layout, error) {
	starter := &domain.Layout{Name: ch.Title, Elements: ch.Starter}
	return m.Create(ctx, starter)
}

// Load retrieves an existing sandbox.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Layout, error) {
	var l *domain.Layout
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		l, err = m.store.Load(ctx, id)
		return err
	})
	return l, err
}

// Save validates the layout, stamps it and persists it under id.
// The layout's ID is overwritten with id.
func (m *Manager) Save(ctx context.Context, id string, l *domain.Layout) error {
	if err := layout.Validate(l); err != nil {
		return err
	}
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		l.ID = id
		l.UpdatedAt = m.now().UTC()
		return m.store.Save(ctx, id, l)
	})
}

// Update applies fn to the stored layout and saves the result, all under the sandbox lock.
func (m *Manager) Update(ctx context.Context, id string, fn func(*domain.Layout) error) (*domain.Layout, error) {
	var out *domain.Layout
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		l, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(l); err != nil {
			return err
		}
		if err := layout.Validate(l); err != nil {
			return err
		}
		l.ID = id
		l.UpdatedAt = m.now().UTC()
		if err := m.store.Save(ctx, id, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	return out, err
}

// Delete removes the sandbox from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying layout store.
func (m *Manager) Store() ports.LayoutStore {
	return m.store
}

// Simulate loads the sandbox under its lock and runs the engine over it.
func (m *Manager) Simulate(ctx context.Context, id string) (*domain.Result, error) {
	var res *domain.Result
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		l, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		res, err = circuitlab.Run(ctx, l, m.graphOpts...)
		return err
	})
	if err != nil && !errors.Is(err, domain.ErrLayoutNotFound) {
		m.logger.Error("sandbox simulation failed", "sandbox_id", id, "err", err)
	}
	return res, err
}

// WithLock executes a function while holding the lock for the sandbox.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"sandbox_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
