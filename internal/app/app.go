// Package app wires configuration into the fleet collaborators and snapshot
// sinks shared by the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-insights/internal/client"
	"github.com/ukydev/fleet-insights/internal/config"
	"github.com/ukydev/fleet-insights/internal/db"
	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/telemetry"
)

// Backend is a fleet collaborator usable by every core component.
type Backend interface {
	fleet.Source
	fleet.TelemetryFeed
	fleet.VehicleLookup
}

// Closer releases resources acquired while wiring.
type Closer func()

// OpenBackend connects to the collaborator selected by cfg.Source.
func OpenBackend(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (Backend, Closer, error) {
	switch cfg.Source {
	case config.SourceMongo:
		mc, err := db.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("database", cfg.Mongo.Database).Info("Connected to MongoDB")
		closer := func() {
			if err := mc.Disconnect(context.Background()); err != nil {
				log.WithError(err).Warn("MongoDB disconnect failed")
			}
		}
		return db.NewStore(mc.Database(cfg.Mongo.Database)), closer, nil
	case config.SourceREST:
		log.WithField("base_url", cfg.API.BaseURL).Info("Using fleet REST API")
		c := client.New(cfg.API.BaseURL, client.WithToken(cfg.API.Token), client.WithTimeout(cfg.API.Timeout))
		return c, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

// OpenRedis connects to Redis when configured. It returns nil otherwise.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled() {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	return rdb, nil
}

// Sinks builds the optional snapshot sinks. A sink that cannot connect is
// logged and skipped so telemetry keeps running without it.
func Sinks(cfg *config.Config, rdb *redis.Client, log logrus.FieldLogger) ([]telemetry.Sink, Closer) {
	var sinks []telemetry.Sink
	closers := []func(){}

	if cfg.MQTT.Enabled() {
		mc, err := telemetry.ConnectMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			log.WithError(err).Warn("MQTT sink disabled")
		} else {
			log.WithFields(logrus.Fields{"broker": cfg.MQTT.Broker, "topic": cfg.MQTT.Topic}).Info("MQTT sink enabled")
			sinks = append(sinks, telemetry.NewMQTTSink(mc, cfg.MQTT.Topic))
			closers = append(closers, func() { mc.Disconnect(250) })
		}
	}
	if rdb != nil {
		log.WithField("addr", cfg.Redis.Addr).Info("Redis sink enabled")
		sinks = append(sinks, telemetry.NewRedisSink(rdb, cfg.Redis.TTL))
	}

	return sinks, func() {
		for _, c := range closers {
			c()
		}
	}
}
