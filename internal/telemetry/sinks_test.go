package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-insights/internal/models"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func completedToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type fakePublisher struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
	token    mqtt.Token
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.topic, p.qos, p.retained = topic, qos, retained
	p.payload = payload.([]byte)
	return p.token
}

func liveSnapshot() *Snapshot {
	return &Snapshot{
		Sequence:   3,
		TakenAt:    fixedNow(),
		VehicleIDs: []models.ID{"v1"},
		Vehicles: map[models.ID]LiveVehicle{
			"v1": {VehicleID: "v1", Status: models.VehicleActive, Location: models.Location{Lat: -1.29, Lon: 36.82}, Speed: 42},
		},
		Drivers: map[models.ID]LiveDriver{},
	}
}

func TestMQTTSink_Publish(t *testing.T) {
	pub := &fakePublisher{token: completedToken(nil)}
	sink := NewMQTTSink(pub, "fleet/telemetry")

	require.NoError(t, sink.Publish(context.Background(), liveSnapshot()))
	assert.Equal(t, "fleet/telemetry", pub.topic)
	assert.Equal(t, byte(1), pub.qos)
	assert.True(t, pub.retained)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(pub.payload, &decoded))
	assert.Equal(t, uint64(3), decoded.Sequence)
	assert.Equal(t, 42.0, decoded.Vehicles["v1"].Speed)
}

func TestMQTTSink_PublishError(t *testing.T) {
	pub := &fakePublisher{token: completedToken(errors.New("not connected"))}
	err := NewMQTTSink(pub, "fleet/telemetry").Publish(context.Background(), liveSnapshot())
	assert.ErrorContains(t, err, "not connected")
}

func TestMQTTSink_ContextCancelled(t *testing.T) {
	pub := &fakePublisher{token: &fakeToken{done: make(chan struct{})}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMQTTSink(pub, "fleet/telemetry").Publish(ctx, liveSnapshot())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisSink_Publish(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis integration test")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	sink := NewRedisSink(client, time.Minute)
	require.NoError(t, sink.Publish(ctx, liveSnapshot()))

	fields, err := client.HGetAll(ctx, VehicleKey("v1")).Result()
	require.NoError(t, err)
	assert.Equal(t, "Active", fields["status"])
	assert.Equal(t, "3", fields["sequence"])

	ttl, err := client.TTL(ctx, VehicleKey("v1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestNewRedisSink_DefaultTTL(t *testing.T) {
	sink := NewRedisSink(nil, 0)
	assert.Equal(t, DefaultLiveTTL, sink.ttl)
	assert.Equal(t, "fleet:live:vehicle:v9", VehicleKey("v9"))
}

func TestGeoLocation_ClampsToRedisBounds(t *testing.T) {
	tests := []struct {
		name     string
		in       models.Location
		lat, lon float64
	}{
		{"in range", models.Location{Lat: -1.2921, Lon: 36.8219}, -1.2921, 36.8219},
		{"north pole", models.Location{Lat: 90, Lon: 10}, maxGeoLatitude, 10},
		{"south pole", models.Location{Lat: -90, Lon: 10}, -maxGeoLatitude, 10},
		{"longitude overflow", models.Location{Lat: 0, Lon: 181}, 0, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geoLocation("v1", tt.in)
			assert.Equal(t, "v1", got.Name)
			assert.Equal(t, tt.lat, got.Latitude)
			assert.Equal(t, tt.lon, got.Longitude)
		})
	}
}
