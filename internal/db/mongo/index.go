package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kailas-cloud/geofeed/internal/db"
)

// Drop removes a collection with all its documents and indexes.
func (s *Store) Drop(ctx context.Context, collection string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.coll(collection).Drop(ctx); err != nil {
		return &db.Error{Op: db.OpDrop, Err: err}
	}
	return nil
}

// CreateIndexes creates one single-field index per definition field.
func (s *Store) CreateIndexes(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	models := make([]mongo.IndexModel, 0, len(def.Fields))
	for _, f := range def.Fields {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: f.Name, Value: indexValue(f.Kind)}}})
	}

	if _, err := s.coll(def.Collection).Indexes().CreateMany(ctx, models); err != nil {
		return &db.Error{Op: db.OpCreateIndexes, Err: err}
	}
	return nil
}

func indexValue(k db.IndexKind) any {
	if k == db.IndexSphere2D {
		return "2dsphere"
	}
	return 1
}
