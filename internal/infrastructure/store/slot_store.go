package store

import (
	"context"
	"sync"
)

// SlotStore persists opaque snapshots under named slots
type SlotStore interface {
	// Load returns the slot contents and whether the slot exists
	Load(ctx context.Context, slot string) ([]byte, bool, error)

	// Save overwrites the slot
	Save(ctx context.Context, slot string, data []byte) error

	Close() error
}

// MemorySlotStore keeps slots in process memory
type MemorySlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{slots: make(map[string][]byte)}
}

func (s *MemorySlotStore) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.slots[slot]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (s *MemorySlotStore) Save(ctx context.Context, slot string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.slots[slot] = stored
	return nil
}

func (s *MemorySlotStore) Close() error {
	return nil
}
