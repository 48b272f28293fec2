package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoModeProducesPlausibleTrips(t *testing.T) {
	svc := NewRouteService(true, nil, nil)

	for i := 0; i < 50; i++ {
		info, err := svc.GetRouteInfo(context.Background(), "A", "B")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, info.DistanceMiles, 5.0)
		assert.LessOrEqual(t, info.DistanceMiles, 60.0)
		assert.GreaterOrEqual(t, info.DurationSeconds, 60)
		assert.LessOrEqual(t, info.DurationSeconds, 3600)
		assert.NotEmpty(t, info.DurationText)
		assert.NotEmpty(t, info.DistanceText)
	}
}

func TestRouteCacheKeyNormalizesAddresses(t *testing.T) {
	base := routeCacheKey("123 Main St, Chicago", "O'Hare Airport")

	assert.Equal(t, base, routeCacheKey("123 MAIN st,   Chicago", "o'hare  airport"))
	assert.Equal(t, base, routeCacheKey("  123 main st, chicago  ", "O'HARE AIRPORT"))
	assert.NotEqual(t, base, routeCacheKey("124 Main St, Chicago", "O'Hare Airport"))
	// swapping origin and destination is a different route
	assert.NotEqual(t, base, routeCacheKey("O'Hare Airport", "123 Main St, Chicago"))
}

func TestLiveModeReturnsCachedRoute(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cached := RouteInfo{
		DistanceMiles:   17.5,
		DurationSeconds: 1500,
		DurationText:    "25 mins",
		DistanceText:    "17.5 mi",
	}
	encoded, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, client.Set(context.Background(), routeCacheKey("downtown", "airport"), encoded, 24*time.Hour).Err())

	// nil maps client: any cache miss would fail loudly
	svc := NewRouteService(false, nil, client)
	info, err := svc.GetRouteInfo(context.Background(), "Downtown", "Airport")
	require.NoError(t, err)
	assert.Equal(t, cached, info)
}

func TestLiveModeWithoutProviderFailsClosed(t *testing.T) {
	svc := NewRouteService(false, nil, nil)

	_, err := svc.GetRouteInfo(context.Background(), "A", "B")
	assert.ErrorIs(t, err, ErrRouteUnavailable)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "25 mins", formatDuration(1500))
	assert.Equal(t, "1 hours 10 mins", formatDuration(4200))
	assert.Equal(t, "1 mins", formatDuration(60))
}
