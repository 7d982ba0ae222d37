package compare

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core"
)

const (
	// MaxItems is the maximum number of institutions compared at once.
	MaxItems = 5
	// StorageKey names the persisted selection.
	StorageKey = "compare-storage"
)

var ErrCapacityExceeded = errors.Errorf("you can compare a maximum of %d institutions", MaxItems)

// Storage persists the selection as a list of ids under a fixed key.
type Storage interface {
	Load(key string) ([]string, error)
	Save(key string, ids []string) error
}

// Store owns the ordered set of institution ids selected for comparison.
// Every mutation is saved to its Storage before returning.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	key     string
	max     int
	items   []string
	index   map[string]struct{}
}

// NewStore loads the persisted selection from storage.
// Duplicates are dropped and the selection is truncated to MaxItems.
func NewStore(storage Storage) (*Store, error) {
	s := &Store{
		storage: storage,
		key:     StorageKey,
		max:     MaxItems,
		index:   make(map[string]struct{}),
	}
	ids, err := storage.Load(s.key)
	if err != nil {
		return nil, errors.Wrap(err, "loading selection")
	}
	for _, id := range core.CleanStrings(ids) {
		if len(s.items) == s.max {
			break
		}
		s.items = append(s.items, id)
		s.index[id] = struct{}{}
	}
	return s, nil
}

// Add appends id to the selection. Adding a selected id is a no-op;
// adding to a full selection fails with ErrCapacityExceeded and changes nothing.
func (s *Store) Add(id string) error {
	id = core.CleanString(id)
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; ok {
		return nil
	}
	if len(s.items) >= s.max {
		return ErrCapacityExceeded
	}
	s.items = append(s.items, id)
	s.index[id] = struct{}{}
	return s.persist()
}

// Remove drops id from the selection, if present.
func (s *Store) Remove(id string) error {
	id = core.CleanString(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return nil
	}
	items := make([]string, 0, len(s.items)-1)
	for _, item := range s.items {
		if item != id {
			items = append(items, item)
		}
	}
	s.items = items
	delete(s.index, id)
	return s.persist()
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.index = make(map[string]struct{})
	return s.persist()
}

func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[core.CleanString(id)]
	return ok
}

// Items returns a copy of the selection, in insertion order.
func (s *Store) Items() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]string, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Max() int { return s.max }

// persist must be called with s.mu held. The in-memory selection is already updated
// when it runs, so a failed save still leaves the new state visible.
func (s *Store) persist() error {
	items := make([]string, len(s.items))
	copy(items, s.items)
	if err := s.storage.Save(s.key, items); err != nil {
		return errors.Wrap(err, "saving selection")
	}
	return nil
}

// MemoryStorage is a Storage kept in memory.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]string)}
}

func (m *MemoryStorage) Load(key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.data[key]))
	copy(ids, m.data[key])
	return ids, nil
}

func (m *MemoryStorage) Save(key string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]string(nil), ids...)
	return nil
}
