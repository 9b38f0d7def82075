package database

import (
	"encoding/json"
	"sync"

	"github.com/mrlokans/bookshelf/internal/apperrors"
)

// MemoryStore is a Store backed by a map. Records are copied on the way in and
// out so callers cannot mutate stored data.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]json.RawMessage
}

// NewMemoryStore creates a store with the given collections already created.
func NewMemoryStore(collections ...string) *MemoryStore {
	s := &MemoryStore{collections: make(map[string][]json.RawMessage)}
	for _, c := range collections {
		s.collections[c] = []json.RawMessage{}
	}
	return s
}

func (s *MemoryStore) Load(collection string) ([]json.RawMessage, error) {
	if err := checkCollectionName(collection); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[collection]
	if !ok {
		return nil, apperrors.NotInitialized(collection)
	}
	return copyRecords(records), nil
}

func (s *MemoryStore) Save(collection string, records []json.RawMessage) error {
	if err := checkCollectionName(collection); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[collection] = copyRecords(records)
	return nil
}

func (s *MemoryStore) Create(collection string) error {
	if err := checkCollectionName(collection); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection]; !ok {
		s.collections[collection] = []json.RawMessage{}
	}
	return nil
}
