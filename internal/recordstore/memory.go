package recordstore

import (
	"context"
	"sync"

	"github.com/mrlokans/shayfa/internal/database/records"
)

// memoryBackend keeps documents in process memory. It backs the store when the
// sqlite file cannot be opened.
type memoryBackend struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	docs  map[string][]byte
	order []string
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{collections: make(map[string]*memoryCollection)}
}

func (m *memoryBackend) EnsureCollections(_ context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range names {
		if _, ok := m.collections[name]; !ok {
			m.collections[name] = &memoryCollection{docs: make(map[string][]byte)}
		}
	}
	return nil
}

func (m *memoryBackend) Get(_ context.Context, collection, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[collection]
	if !ok {
		return nil, nil
	}
	return c.docs[id], nil
}

func (m *memoryBackend) List(_ context.Context, collection string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[collection]
	if !ok {
		return nil, nil
	}
	out := make([][]byte, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id])
	}
	return out, nil
}

func (m *memoryBackend) Upsert(_ context.Context, collection, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = copyBytes(data)
	return nil
}

func (m *memoryBackend) Insert(_ context.Context, collection, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection)
	if _, exists := c.docs[id]; exists {
		return records.ErrDuplicateID
	}
	c.order = append(c.order, id)
	c.docs[id] = copyBytes(data)
	return nil
}

func (m *memoryBackend) Delete(_ context.Context, collection, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[collection]
	if !ok {
		return false, nil
	}
	if _, exists := c.docs[id]; !exists {
		return false, nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// collection must be called with mu held for writing.
func (m *memoryBackend) collection(name string) *memoryCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string][]byte)}
		m.collections[name] = c
	}
	return c
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
