package redis

import (
	"context"
	"testing"
	"time"

	"upbolis-market/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	key := domain.BuildIdempotencyKey(uuid.New(), "checkout-001")
	value := []byte(`{"order":{"status":"paid"}}`)

	// Get before set => nil
	result, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result)

	err = cache.Set(ctx, key, value, 24*time.Hour)
	require.NoError(t, err)

	result, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, result)
}

func TestIdempotencyCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	key := domain.BuildIdempotencyKey(uuid.New(), "checkout-002")

	err := cache.Set(ctx, key, []byte(`{"order":{}}`), 1*time.Second)
	require.NoError(t, err)

	// Fast-forward time in miniredis
	s.FastForward(2 * time.Second)

	result, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result, "expired key should return nil")
}

func TestIdempotencyCache_KeysAreBuyerScoped(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	ref := "checkout-003"
	buyerA := uuid.New()
	buyerB := uuid.New()

	err := cache.Set(ctx, domain.BuildIdempotencyKey(buyerA, ref), []byte("a"), time.Hour)
	require.NoError(t, err)

	// Same reference from another buyer must not collide.
	result, err := cache.Get(ctx, domain.BuildIdempotencyKey(buyerB, ref))
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = cache.Get(ctx, domain.BuildIdempotencyKey(buyerA, ref))
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), result)
}

func TestHealthCheck_Ping(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	hc := NewHealthCheck(client)

	assert.NoError(t, hc.Ping(context.Background()))
	assert.Equal(t, "redis", hc.Name())

	s.Close()
	assert.Error(t, hc.Ping(context.Background()))
}
