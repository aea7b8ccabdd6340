package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kailas-cloud/geofeed/internal/db"
)

// InsertMany inserts docs in order and returns how many were written.
func (s *Store) InsertMany(ctx context.Context, collection string, docs []any) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.coll(collection).InsertMany(ctx, docs)
	if err != nil {
		n := 0
		if res != nil {
			n = len(res.InsertedIDs)
		}
		return n, &db.Error{Op: db.OpInsertMany, Err: err}
	}
	return len(res.InsertedIDs), nil
}

// UpdateByID applies $set to one document. matched reports whether the
// document exists, regardless of whether any value changed.
func (s *Store) UpdateByID(ctx context.Context, collection, id string, set map[string]any) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	byID := bson.D{{Key: "_id", Value: oid}}

	// $set with no fields is rejected by the server; only check existence.
	if len(set) == 0 {
		n, err := s.coll(collection).CountDocuments(ctx, byID, options.Count().SetLimit(1))
		if err != nil {
			return false, &db.Error{Op: db.OpFind, Err: err}
		}
		return n > 0, nil
	}

	update := bson.D{{Key: "$set", Value: bson.M(set)}}
	res, err := s.coll(collection).UpdateOne(ctx, byID, update)
	if err != nil {
		return false, &db.Error{Op: db.OpUpdateOne, Err: err}
	}
	return res.MatchedCount > 0, nil
}

// DeleteByID removes one document and reports whether it existed.
func (s *Store) DeleteByID(ctx context.Context, collection, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.coll(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return false, &db.Error{Op: db.OpDeleteOne, Err: err}
	}
	return res.DeletedCount > 0, nil
}
