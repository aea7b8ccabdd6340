package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kailas-cloud/geofeed/internal/db"
)

// GroupSorted groups the collection by field and returns the group keys
// in ascending order.
func (s *Store) GroupSorted(ctx context.Context, collection, field string) ([]any, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: field, Value: 1}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$" + field}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cur, err := s.coll(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	var groups []struct {
		ID any `bson:"_id"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, &db.Error{Op: db.OpDecode, Err: err}
	}

	out := make([]any, 0, len(groups))
	for _, g := range groups {
		out = append(out, normalize(g.ID))
	}
	return out, nil
}

// Distinct returns the distinct values of field.
func (s *Store) Distinct(ctx context.Context, collection, field string) ([]any, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	values, err := s.coll(collection).Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, &db.Error{Op: db.OpDistinct, Err: err}
	}
	return normalizeSlice(values), nil
}
