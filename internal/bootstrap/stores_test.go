package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStores_Memory(t *testing.T) {
	cfg := config.DefaultConfig()

	s, err := OpenStores(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &store.MemorySlotStore{}, s.Slots)
	assert.Nil(t, s.EventLog)
	assert.Nil(t, s.PostgresLog)
}

func TestOpenStores_SQLite(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Backend = config.BackendSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "carts", "storefront.db")

	s, err := OpenStores(context.Background(), cfg, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Slots.Save(ctx, "cart:abc", []byte(`[]`)))
	data, ok, err := s.Slots.Load(ctx, "cart:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(data))
	assert.NoError(t, s.Close())
}

func TestOpenStores_UnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Backend = "floppy"

	_, err := OpenStores(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOpenStores_UnknownEventLog(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Events.LogBackend = "tape"

	_, err := OpenStores(context.Background(), cfg, nil)
	assert.Error(t, err)
}
