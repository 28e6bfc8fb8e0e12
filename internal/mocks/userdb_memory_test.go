package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/userdb"
)

func TestMemoryStoreActiveKeyContract(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.UpsertUser(ctx, 1)
	require.NoError(t, err)

	// First key becomes active automatically.
	require.NoError(t, store.AddAPIKey(ctx, 1, "key-one-material", "First"))
	active, err := store.GetActiveAPIKey(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "key-one-material", active.Key)

	// Later keys do not steal activation.
	require.NoError(t, store.AddAPIKey(ctx, 1, "key-two-material", "Second"))
	active, err = store.GetActiveAPIKey(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "key-one-material", active.Key)

	// Activating another key leaves exactly one active.
	require.NoError(t, store.SetActiveAPIKey(ctx, 1, "key-two-material"))
	keys, err := store.ListAPIKeys(ctx, 1)
	require.NoError(t, err)
	activeCount := 0
	for _, k := range keys {
		if k.IsActive {
			activeCount++
			assert.Equal(t, "key-two-material", k.Key)
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestMemoryStoreSentinels(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.UpsertUser(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, store.AddAPIKey(ctx, 1, "dup", "Name"))
	assert.ErrorIs(t, store.AddAPIKey(ctx, 1, "dup", "Other"), userdb.ErrDuplicateKey)

	assert.ErrorIs(t, store.DeleteAPIKey(ctx, 1, "missing"), userdb.ErrNotFound)
	assert.ErrorIs(t, store.SetActiveAPIKey(ctx, 1, "missing"), userdb.ErrNotFound)
	assert.ErrorIs(t, store.SetBanned(ctx, 9, true), userdb.ErrNotFound)
}
