package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/you/neuraread/domain"
)

// MemoryStore keeps blobs in process. Used when no bucket is configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	base    string
	objects map[string][]byte
	types   map[string]string

	// FailPut, when set, is consulted before every Put
	FailPut func(key string) error
}

func NewMemoryStore(base string) *MemoryStore {
	return &MemoryStore{base: base, objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *MemoryStore) Put(_ context.Context, key, contentType string, data []byte) (*domain.StoredObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		if err := m.FailPut(key); err != nil {
			return nil, fmt.Errorf("%w: put %s: %v", domain.ErrUpstream, key, err)
		}
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = buf
	m.types[key] = contentType
	return ObjectFor(m.base, key), nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

// Get returns a stored buffer and its content type
func (m *MemoryStore) Get(key string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, m.types[key], ok
}

// Keys lists stored keys in order
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
