package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// NewStoreForTest creates a Store over an existing database handle (test-only).
func NewStoreForTest(database *mongo.Database) *Store {
	return &Store{db: database, timeout: 5 * time.Second}
}
