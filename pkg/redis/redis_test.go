package redis

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/natal/pkg/config"
)

func TestNew_Disabled(t *testing.T) {
	client, err := New(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), "test")

	allowed, remaining, err := limiter.Allow(context.Background(), EphemerisRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, EphemerisRateLimit.Limit, remaining)

	assert.NoError(t, limiter.Wait(context.Background(), APIRateLimit))
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), "test")
	ctx := context.Background()
	assert.False(t, cache.Enabled())

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, "key", "value", TTLShort))
	assert.NoError(t, cache.Delete(ctx, "key"))
}

func TestCache_GetOrSet_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), "test")

	calls := 0
	var out map[string]int
	err := cache.GetOrSet(context.Background(), "k", &out, TTLShort, func() (interface{}, error) {
		calls++
		return map[string]int{"house": 4}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 4, out["house"])

	boom := errors.New("boom")
	err = cache.GetOrSet(context.Background(), "k", &out, TTLShort, func() (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestSummaryKey(t *testing.T) {
	req := map[string]interface{}{"date": "1990-07-15", "time": "12:00"}

	a, err := SummaryKey("natal", req, "abc123")
	require.NoError(t, err)
	b, err := SummaryKey("natal", req, "abc123")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "summary:natal:abc123:"))

	c, err := SummaryKey("natal", req, "def456")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = SummaryKey("natal", make(chan int), "x")
	assert.Error(t, err)
}

func integrationClient(t *testing.T) *Client {
	t.Helper()
	if os.Getenv("REDIS_ENABLED") != "true" {
		t.Skip("REDIS_ENABLED not set, skipping integration test")
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCache_Integration(t *testing.T) {
	client := integrationClient(t)
	cache := NewCache(client, "natal-test")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "roundtrip", map[string]string{"sign": "Cancer"}, time.Minute))
	var got map[string]string
	found, err := cache.Get(ctx, "roundtrip", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Cancer", got["sign"])

	require.NoError(t, cache.Delete(ctx, "roundtrip"))
	found, err = cache.Get(ctx, "roundtrip", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRateLimiter_Integration(t *testing.T) {
	client := integrationClient(t)
	limiter := NewRateLimiter(client, "natal-test")
	cfg := RateLimitConfig{Key: t.Name(), Limit: 2, Window: time.Second}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, cfg)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, _, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, allowed)
}
