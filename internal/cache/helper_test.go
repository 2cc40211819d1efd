package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsPayload struct {
	Views int64 `json:"views"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		client = nil
	})
	return mr
}

func TestAside_MissLoadsAndCaches(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	loads := 0
	var got statsPayload
	err := Aside(ctx, "test:stats", &got, time.Minute, func() error {
		loads++
		got.Views = 42
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
	assert.Equal(t, int64(42), got.Views)

	// Cached now: the loader must not run again.
	var again statsPayload
	err = Aside(ctx, "test:stats", &again, time.Minute, func() error {
		loads++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
	assert.Equal(t, int64(42), again.Views)
	assert.True(t, mr.Exists("test:stats"))
}

func TestAside_CorruptEntryFallsBackToLoader(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("test:stats", "not json"))

	var got statsPayload
	err := Aside(ctx, "test:stats", &got, time.Minute, func() error {
		got.Views = 7
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Views)
}

func TestAside_NoClientDegradesToLoader(t *testing.T) {
	client = nil

	var got statsPayload
	err := Aside(context.Background(), "test:stats", &got, time.Minute, func() error {
		got.Views = 9
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.Views)
}

func TestInvalidate(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set(ChannelStatsKey(3), `{"views":1}`))

	InvalidateChannelStats(ctx, 3)
	assert.False(t, mr.Exists(ChannelStatsKey(3)))
}
