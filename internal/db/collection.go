package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the read-only view of a MongoDB collection the store needs.
type Collection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	FindOne(ctx context.Context, filter interface{}, out interface{}) error
}

// Cursor defines the interface for cursor operations.
type Cursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}
