package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared with the fleet management service.
const (
	VehiclesCollection    = "vehicles"
	DriversCollection     = "drivers"
	CostsCollection       = "costs"
	MaintenanceCollection = "maintenance_records"
)

// Store reads fleet entities straight from the fleet database. It never
// writes.
type Store struct {
	vehicles    Collection
	drivers     Collection
	costs       Collection
	maintenance Collection
}

// NewStore opens the fleet collections of database.
func NewStore(database *mongo.Database) *Store {
	return NewStoreFromCollections(
		&MongoCollection{Collection: database.Collection(VehiclesCollection)},
		&MongoCollection{Collection: database.Collection(DriversCollection)},
		&MongoCollection{Collection: database.Collection(CostsCollection)},
		&MongoCollection{Collection: database.Collection(MaintenanceCollection)},
	)
}

// NewStoreFromCollections builds a store over arbitrary collections.
func NewStoreFromCollections(vehicles, drivers, costs, maintenance Collection) *Store {
	return &Store{vehicles: vehicles, drivers: drivers, costs: costs, maintenance: maintenance}
}

func (s *Store) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return findAll[models.Vehicle](ctx, s.vehicles, VehiclesCollection)
}

func (s *Store) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	return findAll[models.Driver](ctx, s.drivers, DriversCollection)
}

func (s *Store) ListCosts(ctx context.Context) ([]models.Cost, error) {
	return findAll[models.Cost](ctx, s.costs, CostsCollection)
}

func (s *Store) ListMaintenanceRecords(ctx context.Context) ([]models.Maintenance, error) {
	return findAll[models.Maintenance](ctx, s.maintenance, MaintenanceCollection)
}

// FetchTelemetry reads the current vehicles and drivers.
func (s *Store) FetchTelemetry(ctx context.Context) (*fleet.FleetState, error) {
	vehicles, err := s.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}
	drivers, err := s.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}
	return &fleet.FleetState{Vehicles: vehicles, Drivers: drivers}, nil
}

// FindVehicleByID looks a vehicle up by id, matching either an ObjectID in
// hex or a plain string key.
func (s *Store) FindVehicleByID(ctx context.Context, id models.ID) (*models.Vehicle, error) {
	if s.vehicles == nil {
		return nil, fmt.Errorf("find vehicle %s: %w: %v", id, fleet.ErrDataUnavailable, ErrNilCollection)
	}
	var v models.Vehicle
	err := s.vehicles.FindOne(ctx, bson.M{"_id": bson.M{"$in": idCandidates(id)}}, &v)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("vehicle %s: %w", id, fleet.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("find vehicle %s: %w: %v", id, fleet.ErrDataUnavailable, err)
	}
	return &v, nil
}

func idCandidates(id models.ID) bson.A {
	raw := id.String()
	candidates := bson.A{raw}
	if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
		candidates = append(candidates, oid)
	}
	return candidates
}

func findAll[T any](ctx context.Context, c Collection, name string) ([]T, error) {
	if c == nil {
		return nil, fmt.Errorf("list %s: %w: %v", name, fleet.ErrDataUnavailable, ErrNilCollection)
	}
	cursor, err := c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w: %v", name, fleet.ErrDataUnavailable, err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", name, fleet.ErrDataUnavailable, err)
	}
	return out, nil
}
