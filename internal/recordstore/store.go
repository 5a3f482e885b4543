package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/mrlokans/shayfa/internal/database"
	"github.com/mrlokans/shayfa/internal/database/records"
	"github.com/mrlokans/shayfa/internal/entities"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrDuplicateID       = records.ErrDuplicateID
	ErrMissingRecord     = errors.New("record is nil")
)

// Backend stores raw JSON documents by (collection, id).
type Backend interface {
	EnsureCollections(ctx context.Context, names []string) error
	Get(ctx context.Context, collection, id string) ([]byte, error)
	List(ctx context.Context, collection string) ([][]byte, error)
	Upsert(ctx context.Context, collection, id string, data []byte) error
	Insert(ctx context.Context, collection, id string, data []byte) error
	Delete(ctx context.Context, collection, id string) (bool, error)
}

var (
	_ Backend = (*records.Repository)(nil)
	_ Backend = (*memoryBackend)(nil)
)

// Store provides namespaced record storage.
type Store struct {
	backend     Backend
	db          *database.Database // nil in fallback mode
	persistent  bool
	collections map[string]bool
	newID       func() string
}

// Open opens the sqlite store at path, falling back to memory if that fails.
func Open(path string) *Store {
	db, err := database.NewDatabase(path)
	if err != nil {
		log.Printf("WARNING: record store unavailable at %s, falling back to in-memory storage: %v", path, err)
		return NewMemory()
	}

	store := newStore(records.NewRepository(db.DB), true)
	store.db = db
	if err := store.backend.EnsureCollections(context.Background(), entities.KnownCollections); err != nil {
		log.Printf("WARNING: failed to create collections, falling back to in-memory storage: %v", err)
		db.Close()
		return NewMemory()
	}
	return store
}

// OpenDatabase wraps an already opened database.
func OpenDatabase(ctx context.Context, db *database.Database) (*Store, error) {
	store := newStore(records.NewRepository(db.DB), true)
	store.db = db
	if err := store.backend.EnsureCollections(ctx, entities.KnownCollections); err != nil {
		return nil, fmt.Errorf("failed to create collections: %w", err)
	}
	return store, nil
}

// NewMemory returns a non-persistent store.
func NewMemory() *Store {
	store := newStore(newMemoryBackend(), false)
	_ = store.backend.EnsureCollections(context.Background(), entities.KnownCollections)
	return store
}

func newStore(backend Backend, persistent bool) *Store {
	known := make(map[string]bool, len(entities.KnownCollections))
	for _, name := range entities.KnownCollections {
		known[name] = true
	}
	return &Store{
		backend:     backend,
		persistent:  persistent,
		collections: known,
		newID:       func() string { return uuid.NewString() },
	}
}

// Ready reports whether records are persisted. False means the store runs in memory.
func (s *Store) Ready() bool {
	return s.persistent
}

// Database returns the underlying database, or nil in fallback mode.
func (s *Store) Database() *database.Database {
	return s.db
}

// Ping checks the storage connection. The in-memory backend is always reachable.
func (s *Store) Ping() error {
	if s.db == nil {
		return nil
	}
	return s.db.Ping()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the record with id, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, collection, id string) (entities.Record, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}
	data, err := s.backend.Get(ctx, collection, id)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	if data == nil {
		return nil, nil
	}
	return decode(data)
}

// List returns a snapshot of every record in the collection.
func (s *Store) List(ctx context.Context, collection string) ([]entities.Record, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}
	docs, err := s.backend.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	out := make([]entities.Record, 0, len(docs))
	for _, data := range docs {
		rec, err := decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Put inserts or replaces the record, assigning a fresh id if it has none.
func (s *Store) Put(ctx context.Context, collection string, rec entities.Record) (entities.Record, error) {
	stored, data, err := s.prepare(collection, rec)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Upsert(ctx, collection, stored.ID(), data); err != nil {
		return nil, fmt.Errorf("put %s/%s: %w", collection, stored.ID(), err)
	}
	return stored, nil
}

// Insert stores a new record and fails with ErrDuplicateID if the id already exists.
func (s *Store) Insert(ctx context.Context, collection string, rec entities.Record) (entities.Record, error) {
	stored, data, err := s.prepare(collection, rec)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Insert(ctx, collection, stored.ID(), data); err != nil {
		return nil, fmt.Errorf("insert %s/%s: %w", collection, stored.ID(), err)
	}
	return stored, nil
}

// Delete removes the record and reports whether it existed.
func (s *Store) Delete(ctx context.Context, collection, id string) (bool, error) {
	if err := s.checkCollection(collection); err != nil {
		return false, err
	}
	existed, err := s.backend.Delete(ctx, collection, id)
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return existed, nil
}

func (s *Store) checkCollection(collection string) error {
	if !s.collections[collection] {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return nil
}

// prepare copies rec, assigns an id when missing and encodes it.
func (s *Store) prepare(collection string, rec entities.Record) (entities.Record, []byte, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, ErrMissingRecord
	}

	stored := rec.Clone()
	if stored.ID() == "" {
		stored["id"] = s.newID()
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return stored, data, nil
}

func decode(data []byte) (entities.Record, error) {
	var rec entities.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode stored record: %w", err)
	}
	return rec, nil
}
