package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableService(t *testing.T) *Service {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	return newService(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func miniService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return newService(client, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestCheckRateLimit_FixedWindow(t *testing.T) {
	s, mr := miniService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := s.CheckRateLimit(ctx, "rl", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	assert.Equal(t, time.Minute, mr.TTL("rl"))

	allowed, err := s.CheckRateLimit(ctx, "rl", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(time.Minute)
	assert.False(t, mr.Exists("rl"))

	allowed, err = s.CheckRateLimit(ctx, "rl", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimit_RearmsKeyWithoutTTL(t *testing.T) {
	s, mr := miniService(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("rl", "50"))
	require.Zero(t, mr.TTL("rl"))

	allowed, err := s.CheckRateLimit(ctx, "rl", 10, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL("rl"))

	mr.FastForward(time.Minute)

	allowed, err = s.CheckRateLimit(ctx, "rl", 10, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimit_KeepsRunningWindow(t *testing.T) {
	s, mr := miniService(t)
	ctx := context.Background()

	_, err := s.CheckRateLimit(ctx, "rl", 10, time.Minute)
	require.NoError(t, err)
	mr.FastForward(40 * time.Second)

	_, err = s.CheckRateLimit(ctx, "rl", 10, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, mr.TTL("rl"))
}

func TestViewKey(t *testing.T) {
	assert.Equal(t, "view:u1:charts:1000", viewKey("u1", "charts:1000"))
	assert.Equal(t, "view:u1:*", viewKey("u1", "*"))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	s := unreachableService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := s.Set(ctx, "k", "v", time.Minute)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	err := s.Set(ctx, "k", "v", time.Minute)
	assert.ErrorIs(t, err, ErrUnavailable)

	var dest string
	err = s.Get(ctx, "k", &dest)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = s.CheckRateLimit(ctx, "rl", 10, time.Minute)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDeleteWithoutKeysIsNoop(t *testing.T) {
	s := unreachableService(t)
	assert.NoError(t, s.Delete(context.Background()))
}

func TestSetRejectsUnmarshalableValue(t *testing.T) {
	s := unreachableService(t)
	err := s.Set(context.Background(), "k", make(chan int), time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal value")
}
