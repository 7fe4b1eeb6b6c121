package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeskhq/opsdesk/internal/ports"
	"github.com/opsdeskhq/opsdesk/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestSettingsStore_SetAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSettingsStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "auth_token", "t1"))

	value, err := store.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "t1", value)
}

func TestSettingsStore_GetMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSettingsStore(client)

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ports.ErrSettingNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrSettingNotFound)
}

func TestSettingsStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSettingsStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "auth_token", "t1"))
	require.NoError(t, store.Delete(ctx, "auth_token"))

	_, err := store.Get(ctx, "auth_token")
	assert.ErrorIs(t, err, ports.ErrSettingNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, store.Delete(ctx, "auth_token"))
}

func TestSettingsStore_CustomPrefix(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSettingsStoreWithPrefix(client, "test-prefix:")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "auth_user", `{"email":"a@b.com"}`))

	exists := client.Exists(ctx, "test-prefix:auth_user").Val()
	assert.Equal(t, int64(1), exists)
}

func TestSettingsStore_WatchSeesOtherHandles(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	watcherStore := NewSettingsStore(client)
	changes, err := watcherStore.Watch(ctx)
	require.NoError(t, err)

	// Another handle over the same backend, as a second terminal would hold.
	writerStore := NewSettingsStore(client)
	require.NoError(t, writerStore.Set(ctx, "auth_token", "t2"))

	select {
	case change := <-changes:
		assert.Equal(t, "auth_token", change.Key)
		assert.Equal(t, "t2", change.Value)
		assert.False(t, change.Removed)
	case <-ctx.Done():
		t.Fatal("timed out waiting for change event")
	}

	require.NoError(t, writerStore.Delete(ctx, "auth_token"))
	select {
	case change := <-changes:
		assert.Equal(t, "auth_token", change.Key)
		assert.True(t, change.Removed)
	case <-ctx.Done():
		t.Fatal("timed out waiting for removal event")
	}
}

func TestSettingsStore_WatchFiltersOwnWrites(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := NewSettingsStore(client)
	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "auth_token", "own-write"))

	select {
	case change := <-changes:
		t.Fatalf("own write must not be observed, got %+v", change)
	case <-time.After(300 * time.Millisecond):
	}
}
