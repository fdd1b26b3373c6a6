package cart

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"weak"

	"github.com/example/storefront/internal/event"
	"github.com/example/storefront/internal/infrastructure/store"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

const DefaultCacheSize = 1024

// Manager hands out the Store of each browsing session, keeping recently
// used stores open. A session never has two live stores: a store evicted
// while a caller still holds it is handed out again on the next Open and
// re-reads its slot before its next mutation.
type Manager struct {
	mu      sync.Mutex
	open    *lru.Cache
	evicted map[string]weak.Pointer[Store]

	slots     store.SlotStore
	publisher event.Publisher
	logger    *zap.Logger
}

func NewManager(slots store.SlotStore, publisher event.Publisher, logger *zap.Logger, cacheSize int) (*Manager, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		evicted:   make(map[string]weak.Pointer[Store]),
		slots:     slots,
		publisher: publisher,
		logger:    logger.Named("cart"),
	}
	cache, err := lru.NewWithEvict(cacheSize, m.onEvict)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart cache: %w", err)
	}
	m.open = cache
	return m, nil
}

// Open returns the session's cart, loading it from its slot on first use.
// The slot is read without holding the manager lock.
func (m *Manager) Open(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}

	m.mu.Lock()
	if s, ok := m.lookupLocked(sessionID); ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	loaded := NewStore(sessionID, m.slots, m.publisher, m.logger)
	if err := loaded.Load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.lookupLocked(sessionID); ok {
		return s, nil
	}
	m.open.Add(sessionID, loaded)
	runtime.AddCleanup(loaded, m.release, sessionID)
	m.logger.Debug("cart opened", zap.String("session_id", sessionID), zap.Int("items", len(loaded.items)))
	return loaded, nil
}

// Forget drops a session's store from the cache
func (m *Manager) Forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open.Remove(sessionID)
}

// lookupLocked finds the cached store, or revives an evicted one that is
// still referenced somewhere
func (m *Manager) lookupLocked(sessionID string) (*Store, bool) {
	if cached, ok := m.open.Get(sessionID); ok {
		return cached.(*Store), true
	}
	wp, ok := m.evicted[sessionID]
	if !ok {
		return nil, false
	}
	delete(m.evicted, sessionID)
	s := wp.Value()
	if s == nil {
		return nil, false
	}
	m.open.Add(sessionID, s)
	m.logger.Debug("cart revived", zap.String("session_id", sessionID))
	return s, true
}

// onEvict runs inside cache Add and Remove, which are only called with
// m.mu held
func (m *Manager) onEvict(key, value interface{}) {
	s := value.(*Store)
	s.stale.Store(true)
	m.evicted[key.(string)] = weak.Make(s)
}

// release forgets the weak reference of a collected store
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if wp, ok := m.evicted[sessionID]; ok && wp.Value() == nil {
		delete(m.evicted, sessionID)
	}
}
