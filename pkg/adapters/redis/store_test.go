package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/chomsky/pkg/adapters/redis"
	"github.com/aretw0/chomsky/pkg/domain"
	contract "github.com/aretw0/chomsky/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	contract.ConversionStoreContractTest(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	record := &domain.Conversion{ID: "conv-ttl", Source: "S -> a", Start: "S0"}

	require.NoError(t, store.Save(ctx, record))

	ids, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, ids, record.ID)

	// Key expiration is driven by miniredis time.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, record.ID)
	assert.ErrorIs(t, err, domain.ErrConversionNotFound)

	// Index pruning compares against wall-clock seconds.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, &domain.Conversion{ID: "my-conv", Start: "S0"})
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:my-conv"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	ids, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, ids, "my-conv")

	assert.NoError(t, store.Ping(ctx))
}
