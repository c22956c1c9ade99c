package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-platform/internal/config"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	store, err := InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestSaveAndConsume(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti-1", 42, time.Hour))

	userID, err := store.Consume(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	_, err = store.Consume(ctx, "jti-1")
	assert.ErrorIs(t, err, ErrNotFound, "refresh token must be single use")
}

func TestConsumeExpired(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti-2", 7, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Consume(ctx, "jti-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConsumeCorrupted(t *testing.T) {
	store, mr := setupTestStore(t)

	require.NoError(t, mr.Set(keyPrefix+"bad", "not-a-number"))
	_, err := store.Consume(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestInitServerUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := InitServer(ctx, config.RedisConnection{AddressRedis: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}
