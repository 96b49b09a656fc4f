// Package badger stores sandbox layouts in an embedded BadgerDB.
//
// It is the single-binary alternative to Redis: no server to run, data lives in a local
// directory (or in memory for tests).
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/dgraph-io/badger/v4"
)

// Config holds configuration for the BadgerDB instance.
type Config struct {
	// Path is the directory for database files. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// Logger receives BadgerDB's internal logs. Nil disables them.
	Logger *slog.Logger

	// Prefix namespaces the keys. Defaults to "sandbox/".
	Prefix string
}

// Store implements ports.LayoutStore on BadgerDB.
// Safe for concurrent use.
type Store struct {
	db     *badger.DB
	prefix string
}

// Open opens (or creates) the database described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "sandbox/"
	}
	return &Store{db: db, prefix: prefix}, nil
}

func (s *Store) key(id string) []byte {
	return []byte(s.prefix + id)
}

// Save persists the layout as JSON.
func (s *Store) Save(ctx context.Context, id string, layout *domain.Layout) error {
	data, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(id), data)
	}); err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	return nil
}

// Load retrieves the layout.
func (s *Store) Load(ctx context.Context, id string) (*domain.Layout, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}

	var layout domain.Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout: %w", err)
	}
	return &layout, nil
}

// Delete removes the layout. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key(id))
	})
}

// List returns the stored ids in key order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids := []string{}
	prefix := []byte(s.prefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), s.prefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	return ids, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// badgerLogger forwards BadgerDB logs to slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}
