package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_OpenCachesStore(t *testing.T) {
	slots := mocks.NewMockSlotStore()
	m, err := NewManager(slots, nil, nil, 4)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := m.Open(ctx, "abc")
	require.NoError(t, err)
	second, err := m.Open(ctx, "abc")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, []string{"cart:abc"}, slots.LoadCalls)
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m, err := NewManager(mocks.NewMockSlotStore(), nil, nil, 0)
	require.NoError(t, err)
	ctx := context.Background()

	a, _ := m.Open(ctx, "a")
	b, _ := m.Open(ctx, "b")
	_, err = a.AddItem(ctx, tee(2, "S", "Black"))
	require.NoError(t, err)

	assert.Equal(t, 2, a.TotalItems())
	assert.Equal(t, 0, b.TotalItems())
}

func TestManager_EvictedStoreReloads(t *testing.T) {
	slots := mocks.NewMockSlotStore()
	m, err := NewManager(slots, nil, nil, 1)
	require.NoError(t, err)
	ctx := context.Background()

	a, _ := m.Open(ctx, "a")
	_, _ = a.AddItem(ctx, tee(3, "M", "White"))
	_, _ = m.Open(ctx, "b")

	// another process writes the slot while the store is out of the cache
	data, err := EncodeSnapshot([]LineItem{tee(3, "M", "White"), hoodie(1)})
	require.NoError(t, err)
	slots.SetData("cart:a", data)

	_, err = a.AddItem(ctx, tee(1, "S", "Black"))
	require.NoError(t, err)

	assert.Equal(t, 5, a.TotalItems())
	persisted, _ := slots.Data("cart:a")
	items, err := DecodeSnapshot(persisted)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestManager_EvictedStoreStillHeld(t *testing.T) {
	slots := mocks.NewMockSlotStore()
	m, err := NewManager(slots, nil, nil, 1)
	require.NoError(t, err)
	ctx := context.Background()

	a, err := m.Open(ctx, "s1")
	require.NoError(t, err)
	_, err = m.Open(ctx, "s2")
	require.NoError(t, err)
	b, err := m.Open(ctx, "s1")
	require.NoError(t, err)

	assert.Same(t, a, b)

	_, err = a.AddItem(ctx, tee(1, "S", "Black"))
	require.NoError(t, err)
	_, err = b.AddItem(ctx, hoodie(1))
	require.NoError(t, err)

	persisted, _ := slots.Data("cart:s1")
	items, err := DecodeSnapshot(persisted)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestManager_Forget(t *testing.T) {
	slots := mocks.NewMockSlotStore()
	m, err := NewManager(slots, nil, nil, 4)
	require.NoError(t, err)
	ctx := context.Background()

	a, _ := m.Open(ctx, "a")
	m.Forget("a")
	again, err := m.Open(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.Len(t, slots.LoadCalls, 1)

	// the forgotten store re-reads its slot before the next write
	_, err = again.AddItem(ctx, tee(1, "S", "Black"))
	require.NoError(t, err)
	assert.Len(t, slots.LoadCalls, 2)
}

func TestManager_OpenErrors(t *testing.T) {
	slots := mocks.NewMockSlotStore()
	m, err := NewManager(slots, nil, nil, 4)
	require.NoError(t, err)

	_, err = m.Open(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptySession)

	slots.LoadErr = errors.New("connection refused")
	_, err = m.Open(context.Background(), "a")
	assert.Error(t, err)

	// a failed open is not cached
	slots.LoadErr = nil
	s, err := m.Open(context.Background(), "a")
	require.NoError(t, err)
	assert.NotNil(t, s)
}

// ============================================
// Snapshot Tests
// ============================================

func TestSnapshot_RoundTrip(t *testing.T) {
	items := []LineItem{tee(1, "S", "Black"), tee(2, "XL", "White"), hoodie(1)}

	data, err := EncodeSnapshot(items)
	require.NoError(t, err)
	got, err := DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Len(t, got, 3)
	for i := range items {
		assert.Equal(t, items[i].Key(), got[i].Key())
		assert.True(t, items[i].Price.Equal(got[i].Price))
		assert.Equal(t, items[i].Quantity, got[i].Quantity)
	}
}

func TestSnapshot_EmptyCart(t *testing.T) {
	data, err := EncodeSnapshot(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	items, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSnapshot_OneSizeItemOmitsVariant(t *testing.T) {
	data, err := EncodeSnapshot([]LineItem{tee(1, "", "")})
	require.NoError(t, err)

	assert.NotContains(t, string(data), "size")
	assert.NotContains(t, string(data), "color")
}

func TestSnapshot_Corrupt(t *testing.T) {
	_, err := DecodeSnapshot([]byte("null-ish"))
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}
