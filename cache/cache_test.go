package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStable(t *testing.T) {
	type req struct {
		Query   string
		Display int
	}
	a, err := Key("shopping", req{"망고", 100})
	require.NoError(t, err)
	b, err := Key("shopping", req{"망고", 100})
	require.NoError(t, err)
	c, err := Key("shopping", req{"망고", 50})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^shopping:[0-9a-f]{64}$`, a)
}

func TestNopAlwaysMisses(t *testing.T) {
	var c Client = Nop{}
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	_, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisClient(ctx, RedisConfig{Addr: addr, Prefix: "foodintel-test:"})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
