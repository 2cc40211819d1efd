package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptions(t *testing.T) {
	opts, err := clientOptions("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, dialTimeout, opts.DialTimeout)

	opts, err = clientOptions("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, dialTimeout, opts.DialTimeout)

	_, err = clientOptions("foo://bar")
	assert.Error(t, err)
}

func TestInitRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	t.Cleanup(func() {
		if client != nil {
			client.Close()
		}
		client = nil
	})

	InitRedis(mr.Addr())
	require.NotNil(t, GetClient())
	assert.NoError(t, GetClient().Set(context.Background(), "k", "v", time.Minute).Err())

	// An unreachable server leaves the cache disabled, not broken.
	addr := mr.Addr()
	mr.Close()
	InitRedis(addr)
	assert.Nil(t, GetClient())
}
