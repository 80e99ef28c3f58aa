package storage

import (
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned when an object id is unknown.
var ErrNotFound = fmt.Errorf("object not found")

// ObjectStore persists opaque binary objects keyed by id.
type ObjectStore interface {
	Put(id string, data []byte) error
	Get(id string) ([]byte, error)
	List() ([]string, error)
}

// InMemoryStore is a volatile ObjectStore keeping blobs in a process-local
// map. Safe for concurrent access; stored and returned bytes are copied to
// prevent external mutation.
type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewInMemoryStore constructs an empty in-memory object store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{objects: make(map[string][]byte)}
}

// Put implements ObjectStore.
func (s *InMemoryStore) Put(id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id] = append([]byte{}, data...)
	return nil
}

// Get implements ObjectStore.
func (s *InMemoryStore) Get(id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return append([]byte{}, data...), nil
}

// List implements ObjectStore returning ids in lexical order.
func (s *InMemoryStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.objects))
	for id := range s.objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
