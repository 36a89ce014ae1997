package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/models"
)

const (
	// DefaultLiveTTL bounds how long a vehicle's live hash survives without
	// a refresh.
	DefaultLiveTTL = 5 * time.Minute

	redisVehicleKey   = "fleet:live:vehicle:%s"
	redisPositionsKey = "fleet:live:positions"
	redisChannel      = "fleet:snapshots"

	// Redis GEOADD only accepts EPSG:3857 latitudes.
	maxGeoLatitude  = 85.05112878
	maxGeoLongitude = 180.0
)

// RedisSink mirrors the live state into Redis: one hash per vehicle, a geo
// set of positions, and the full snapshot on a pub/sub channel.
type RedisSink struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisSink creates a sink. A non-positive ttl selects DefaultLiveTTL.
func NewRedisSink(client redis.UniversalClient, ttl time.Duration) *RedisSink {
	if ttl <= 0 {
		ttl = DefaultLiveTTL
	}
	return &RedisSink{client: client, ttl: ttl}
}

// VehicleKey returns the hash key holding a vehicle's live state.
func VehicleKey(id string) string {
	return fmt.Sprintf(redisVehicleKey, id)
}

func (r *RedisSink) Name() string { return "redis" }

// Publish writes snap in a single pipeline.
func (r *RedisSink) Publish(ctx context.Context, snap *Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	pipe := r.client.Pipeline()
	for _, id := range snap.VehicleIDs {
		lv := snap.Vehicles[id]
		key := VehicleKey(id.String())
		pipe.HSet(ctx, key,
			"status", string(lv.Status),
			"lat", lv.Location.Lat,
			"lon", lv.Location.Lon,
			"speed", lv.Speed,
			"fuel_level", lv.FuelLevel,
			"maintenance_score", lv.MaintenanceScore,
			"sequence", snap.Sequence,
			"ts", snap.TakenAt.Unix(),
		)
		pipe.Expire(ctx, key, r.ttl)
		pipe.GeoAdd(ctx, redisPositionsKey, geoLocation(id.String(), lv.Location))
	}
	pipe.Publish(ctx, redisChannel, payload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish snapshot %d: %w", snap.Sequence, err)
	}
	return nil
}

func geoLocation(name string, loc models.Location) *redis.GeoLocation {
	return &redis.GeoLocation{
		Name:      name,
		Longitude: fleet.Clamp(loc.Lon, -maxGeoLongitude, maxGeoLongitude),
		Latitude:  fleet.Clamp(loc.Lat, -maxGeoLatitude, maxGeoLatitude),
	}
}
