package book

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreviews/internal/platform/cache"
)

// Runs against a real Redis when TEST_REDIS_ADDR is set.
func TestRedisDetailCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := cache.NewRedisClient(ctx, cache.Options{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisDetailCache(client, time.Minute)
	d := Detail{
		Book:          Book{ID: duneID, Title: "Dune"},
		Reviews:       []ReviewSummary{{ID: "r1", Rating: 4}},
		AverageRating: "4.00",
	}
	require.NoError(t, c.Invalidate(ctx, duneID))

	_, ok, err := c.Get(ctx, duneID)
	require.NoError(t, err)
	assert.False(t, ok)

	gen, err := c.Generation(ctx, duneID)
	require.NoError(t, err)
	stored, err := c.Set(ctx, d, gen)
	require.NoError(t, err)
	assert.True(t, stored)
	got, ok, err := c.Get(ctx, duneID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, d.Title, got.Title)
	assert.Equal(t, d.AverageRating, got.AverageRating)
	assert.Len(t, got.Reviews, 1)

	require.NoError(t, c.Invalidate(ctx, duneID))
	_, ok, err = c.Get(ctx, duneID)
	require.NoError(t, err)
	assert.False(t, ok)

	// gen was read before the last Invalidate, so this write is stale.
	stored, err = c.Set(ctx, d, gen)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err = c.Get(ctx, duneID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDetailKey(t *testing.T) {
	assert.Equal(t, "book:detail:abc", detailKey("abc"))
	assert.Equal(t, "book:detail:gen:abc", generationKey("abc"))
}
