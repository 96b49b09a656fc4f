package ports_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/ports"
)

// mockStore is the smallest LayoutStore that satisfies the contract.
type mockStore struct {
	mu   sync.Mutex
	data map[string]*domain.Layout
}

func (m *mockStore) Save(ctx context.Context, id string, layout *domain.Layout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = layout.Clone()
	return nil
}

func (m *mockStore) Load(ctx context.Context, id string) (*domain.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.data[id]
	if !ok {
		return nil, domain.ErrLayoutNotFound
	}
	return l.Clone(), nil
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func (m *mockStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func TestLayoutStore_Contract(t *testing.T) {
	ports.RunLayoutStoreContract(t, &mockStore{data: make(map[string]*domain.Layout)})
}

func TestReadingSinkFunc(t *testing.T) {
	var got []string
	sink := ports.ReadingSinkFunc(func(ref any, r domain.Reading) {
		got = append(got, r.ID)
	})
	sink.ApplyReading(nil, domain.Reading{ID: "bulb"})

	if len(got) != 1 || got[0] != "bulb" {
		t.Fatalf("unexpected readings: %v", got)
	}
}
