package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRateLimiterDisabled(t *testing.T) {
	require.Nil(t, NewRateLimiter(0))
	require.Nil(t, NewRateLimiter(-5))
}

func TestRateLimiterPerClient(t *testing.T) {
	limiter := NewRateLimiter(60)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 6; i++ {
		require.True(t, limiter.allow("10.0.0.1"), "request %d within burst", i)
	}
	require.False(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.2"), "other clients keep their own budget")

	now = now.Add(time.Second)
	require.True(t, limiter.allow("10.0.0.1"), "one token refills per second")
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(60)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.allow("10.0.0.1")
	limiter.allow("10.0.0.2")
	require.Equal(t, 2, limiter.size())

	now = now.Add(10 * time.Minute)
	limiter.allow("10.0.0.3")
	require.Equal(t, 1, limiter.size())
}
