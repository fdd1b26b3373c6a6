package mocks

import (
	"context"
	"sync"
)

// MockSlotStore is a mock implementation of store.SlotStore for testing
type MockSlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte

	// For tracking calls in tests
	SaveCalls []SaveCall
	LoadCalls []string
	LoadErr   error
	SaveErr   error
	Closed    bool
}

// SaveCall records parameters passed to Save
type SaveCall struct {
	Slot string
	Data []byte
}

// NewMockSlotStore creates a new MockSlotStore
func NewMockSlotStore() *MockSlotStore {
	return &MockSlotStore{
		slots:     make(map[string][]byte),
		SaveCalls: make([]SaveCall, 0),
	}
}

func (m *MockSlotStore) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls = append(m.LoadCalls, slot)
	if m.LoadErr != nil {
		return nil, false, m.LoadErr
	}
	data, ok := m.slots[slot]
	return data, ok, nil
}

func (m *MockSlotStore) Save(ctx context.Context, slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls = append(m.SaveCalls, SaveCall{Slot: slot, Data: data})
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.slots[slot] = data
	return nil
}

func (m *MockSlotStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// SetData sets slot contents directly for testing
func (m *MockSlotStore) SetData(slot string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = data
}

// Data returns the current slot contents
func (m *MockSlotStore) Data(slot string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[slot]
	return data, ok
}

// LastSave returns the most recent Save call
func (m *MockSlotStore) LastSave() (SaveCall, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.SaveCalls) == 0 {
		return SaveCall{}, false
	}
	return m.SaveCalls[len(m.SaveCalls)-1], true
}

// Reset clears all slots and recorded calls
func (m *MockSlotStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = make(map[string][]byte)
	m.SaveCalls = make([]SaveCall, 0)
	m.LoadCalls = nil
	m.LoadErr = nil
	m.SaveErr = nil
}
