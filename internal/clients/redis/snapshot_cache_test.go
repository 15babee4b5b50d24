package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/prizely-backend/internal/compare"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
)

func TestNoopCache(t *testing.T) {
	var c SnapshotCache = NoopCache{}
	ctx := context.Background()
	stored, err := c.Set(ctx, 0, &compare.Snapshot{})
	require.NoError(t, err)
	assert.False(t, stored)
	snap, ok, err := c.Get(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	log, err := logger.New("test")
	require.NoError(t, err)

	c, err := NewSnapshotCache(log, Config{Addr: addr, Key: "prizely:test:" + uuid.NewString(), TTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	snap := compare.NewSnapshot(
		[]compare.ItemRecord{{ID: "i1", ItemMeta: compare.ItemMeta{Name: "Sugar", Unit: "kg"}}},
		[]compare.MarketRecord{{ID: "m1", MarketMeta: compare.MarketMeta{Name: "Imtiaz", Verified: true}}},
		[]compare.PriceEntry{{ItemID: "i1", MarketID: "m1", Price: 150}},
	)
	require.NoError(t, c.Ping(ctx))
	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	stored, err := c.Set(ctx, gen, snap)
	require.NoError(t, err)
	require.True(t, stored)

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, got)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// A snapshot loaded before the invalidation must not be stored after it.
	stored, err = c.Set(ctx, gen, snap)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	next, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
}

func TestNewSnapshotCacheRequiresAddr(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)
	_, err = NewSnapshotCache(log, Config{})
	assert.Error(t, err)
}
