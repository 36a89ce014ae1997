package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNilCollection is returned by a MongoCollection with no collection set.
var ErrNilCollection = errors.New("mongo collection is nil")

// ConnectMongo connects to uri and pings the server.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	// Ping to verify connection
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// MongoCollection wraps a MongoDB collection for read operations.
type MongoCollection struct {
	Collection *mongo.Collection
}

// mongoCursor wraps a MongoDB cursor.
type mongoCursor struct {
	cursor *mongo.Cursor
}

// All retrieves all results from the cursor.
func (m *mongoCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

// Close closes the cursor.
func (m *mongoCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}

// Find queries documents from the collection.
func (c *MongoCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{cursor: cursor}, nil
}

// FindOne decodes the first document matching filter into out. A miss is
// reported as mongo.ErrNoDocuments.
func (c *MongoCollection) FindOne(ctx context.Context, filter interface{}, out interface{}) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	return c.Collection.FindOne(ctx, filter).Decode(out)
}
