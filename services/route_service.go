package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"googlemaps.github.io/maps"
)

const (
	routeCachePrefix = "route_info:"
	routeCacheTTL    = 24 * time.Hour

	// 1 meter in miles.
	metersToMiles = 0.000621371
)

type RouteInfo struct {
	DistanceMiles   float64 `json:"distance_miles"`
	DurationSeconds int     `json:"duration_seconds"`
	DurationText    string  `json:"duration_text"`
	DistanceText    string  `json:"distance_text"`
}

// RouteService resolves distance and duration for a pickup/dropoff pair. In
// demo mode it fabricates plausible trips; in live mode it queries the Google
// distance matrix and caches results for 24 hours.
type RouteService struct {
	demoMode bool
	maps     *maps.Client
	cache    *redis.Client
}

func NewRouteService(demoMode bool, mapsClient *maps.Client, cache *redis.Client) *RouteService {
	return &RouteService{demoMode: demoMode, maps: mapsClient, cache: cache}
}

// NewMapsClient builds a Google Maps client with a bounded request timeout so
// a slow provider cannot hold request handlers hostage.
func NewMapsClient(apiKey string) (*maps.Client, error) {
	return maps.NewClient(
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	)
}

func (s *RouteService) GetRouteInfo(ctx context.Context, pickupAddress, dropoffAddress string) (RouteInfo, error) {
	if s.demoMode {
		return simulatedTripInfo(), nil
	}

	cacheKey := routeCacheKey(pickupAddress, dropoffAddress)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var info RouteInfo
			if err := json.Unmarshal([]byte(cached), &info); err == nil {
				return info, nil
			}
		}
	}

	info, err := s.fetchDistanceMatrix(ctx, pickupAddress, dropoffAddress)
	if err != nil {
		return RouteInfo{}, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(info); err == nil {
			if err := s.cache.Set(ctx, cacheKey, encoded, routeCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache route info: %v", err)
			}
		}
	}

	return info, nil
}

func (s *RouteService) fetchDistanceMatrix(ctx context.Context, origin, destination string) (RouteInfo, error) {
	if s.maps == nil {
		return RouteInfo{}, ErrRouteUnavailable
	}

	resp, err := s.maps.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Units:        maps.UnitsImperial,
	})
	if err != nil {
		log.Printf("Distance matrix request failed: %v", err)
		return RouteInfo{}, ErrRouteUnavailable
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		log.Println("Distance matrix returned empty results")
		return RouteInfo{}, ErrRouteUnavailable
	}

	element := resp.Rows[0].Elements[0]
	switch element.Status {
	case "OK":
	case "ZERO_RESULTS":
		return RouteInfo{}, ErrNoRouteFound
	case "NOT_FOUND":
		return RouteInfo{}, ErrLocationNotFound
	default:
		log.Printf("Distance matrix element status error: %s", element.Status)
		return RouteInfo{}, ErrRouteUnavailable
	}

	durationSeconds := int(element.Duration.Seconds())

	return RouteInfo{
		DistanceMiles:   round2(float64(element.Distance.Meters) * metersToMiles),
		DurationSeconds: durationSeconds,
		DurationText:    formatDuration(durationSeconds),
		DistanceText:    element.Distance.HumanReadable,
	}, nil
}

func simulatedTripInfo() RouteInfo {
	distanceMiles := float64(5 + rand.Intn(56)) // 5-60 miles
	durationSeconds := 60 + rand.Intn(3541)     // 60-3600 seconds

	return RouteInfo{
		DistanceMiles:   distanceMiles,
		DurationSeconds: durationSeconds,
		DurationText:    formatDuration(durationSeconds),
		DistanceText:    fmt.Sprintf("%.0f miles", distanceMiles),
	}
}

// routeCacheKey hashes the normalized address pair so equivalent spellings of
// a route share a cache entry.
func routeCacheKey(pickup, dropoff string) string {
	sum := sha256.Sum256([]byte(normalizeAddress(pickup) + "|" + normalizeAddress(dropoff)))
	return routeCachePrefix + hex.EncodeToString(sum[:])
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func formatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600 + 30) / 60
	if hours > 0 {
		return fmt.Sprintf("%d hours %d mins", hours, minutes)
	}
	return fmt.Sprintf("%d mins", minutes)
}
