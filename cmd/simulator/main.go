package main

import (
	"context"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-insights/internal/app"
	"github.com/ukydev/fleet-insights/internal/config"
	"github.com/ukydev/fleet-insights/internal/logging"
	"github.com/ukydev/fleet-insights/internal/models"
	"github.com/ukydev/fleet-insights/internal/telemetry"
)

func haversineKm(a, b models.Location) float64 {
	R := 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return R * c
}

// logSink logs each vehicle's movement since the previous snapshot.
type logSink struct {
	log log.FieldLogger

	mu   sync.Mutex
	prev *telemetry.Snapshot
}

func newLogSink(l log.FieldLogger) *logSink {
	return &logSink{log: l}
}

func (s *logSink) Name() string { return "log" }

func (s *logSink) Publish(_ context.Context, snap *telemetry.Snapshot) error {
	s.mu.Lock()
	prev := s.prev
	s.prev = snap
	s.mu.Unlock()

	total := 0.0
	for _, id := range snap.VehicleIDs {
		lv := snap.Vehicles[id]
		moved := 0.0
		if old, ok := prev.Vehicle(id); ok {
			moved = haversineKm(old.Location, lv.Location)
		}
		total += moved
		s.log.WithFields(log.Fields{
			"vehicle_id": id,
			"status":     lv.Status,
			"speed":      lv.Speed,
			"fuel_level": lv.FuelLevel,
			"moved_km":   moved,
		}).Debug("Vehicle telemetry")
	}
	s.log.WithFields(log.Fields{
		"sequence": snap.Sequence,
		"vehicles": len(snap.VehicleIDs),
		"drivers":  len(snap.DriverIDs),
		"moved_km": total,
	}).Info("Telemetry snapshot")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("Telemetry simulation stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	backend, closeBackend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	rdb, err := app.OpenRedis(ctx, cfg)
	if err != nil {
		logger.WithError(err).Warn("Redis sink disabled")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	sinks, closeSinks := app.Sinks(cfg, rdb, logger)
	defer closeSinks()
	sinks = append(sinks, newLogSink(logger))

	scheduler := telemetry.NewScheduler(
		telemetry.NewSimulator(backend, cfg.Telemetry.Seed),
		telemetry.NewSnapshotStore(),
		telemetry.WithInterval(cfg.Telemetry.RefreshInterval),
		telemetry.WithSinks(sinks...),
		telemetry.WithLogger(logger),
	)

	logger.WithFields(log.Fields{
		"source":   cfg.Source,
		"interval": cfg.Telemetry.RefreshInterval,
		"seed":     cfg.Telemetry.Seed,
		"sinks":    len(sinks),
	}).Info("Starting telemetry simulation")

	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	scheduler.Stop()
	logger.WithField("skipped_ticks", scheduler.Skipped()).Info("Telemetry simulation stopped")
	return nil
}
