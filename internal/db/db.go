package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers depend on the narrow sub-interfaces
type Store interface {
	Pinger
	Finder
	Writer
	Aggregator
	CollectionManager
	Close(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Document is a schemaless store record with driver types already
// converted to plain Go values.
type Document map[string]any

// Finder reads documents. out must be a pointer to a slice (Find) or a
// struct/map (FindByID) decodable from the stored representation.
type Finder interface {
	Find(ctx context.Context, q *Query, out any) error
	FindByID(ctx context.Context, collection, id string, out any) error
}

// Writer mutates documents.
type Writer interface {
	InsertMany(ctx context.Context, collection string, docs []any) (int, error)
	UpdateByID(ctx context.Context, collection, id string, set map[string]any) (matched bool, err error)
	DeleteByID(ctx context.Context, collection, id string) (deleted bool, err error)
}

// Aggregator computes distinct value sets.
type Aggregator interface {
	// GroupSorted returns the distinct values of field in ascending order.
	GroupSorted(ctx context.Context, collection, field string) ([]any, error)
	// Distinct returns the distinct values of field in store order.
	Distinct(ctx context.Context, collection, field string) ([]any, error)
}

// CollectionManager provides collection and index lifecycle operations.
type CollectionManager interface {
	Drop(ctx context.Context, collection string) error
	CreateIndexes(ctx context.Context, def *IndexDefinition) error
}

// Locker guards an exclusive job across processes.
type Locker interface {
	// Acquire takes key for ttl and returns the owner token. It returns
	// ErrLockHeld when another owner holds key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	// Release frees key if it is still held by token.
	Release(ctx context.Context, key, token string) error
}
