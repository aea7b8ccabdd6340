package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kailas-cloud/geofeed/internal/db"
)

// Find runs q and decodes every match into out.
// A *[]db.Document target receives driver-neutral documents.
func (s *Store) Find(ctx context.Context, q *db.Query, out any) error {
	if q.Collection == "" {
		return errors.New("collection is required")
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find()
	if p := compileProjection(q); p != nil {
		opts.SetProjection(p)
	}
	if srt := compileSort(q.Sort); srt != nil {
		opts.SetSort(srt)
	}

	cur, err := s.coll(q.Collection).Find(ctx, compileFilter(q.Filter), opts)
	if err != nil {
		return &db.Error{Op: db.OpFind, Err: err}
	}

	if docs, ok := out.(*[]db.Document); ok {
		var raw []bson.M
		if err := cur.All(ctx, &raw); err != nil {
			return &db.Error{Op: db.OpDecode, Err: err}
		}
		res := make([]db.Document, 0, len(raw))
		for _, m := range raw {
			res = append(res, toDocument(m))
		}
		*docs = res
		return nil
	}

	if err := cur.All(ctx, out); err != nil {
		return &db.Error{Op: db.OpDecode, Err: err}
	}
	return nil
}

// FindByID decodes the document with the given identifier into out.
func (s *Store) FindByID(ctx context.Context, collection, id string, out any) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res := s.coll(collection).FindOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return db.ErrNotFound
		}
		return &db.Error{Op: db.OpFindOne, Err: err}
	}

	if doc, ok := out.(*db.Document); ok {
		var m bson.M
		if err := res.Decode(&m); err != nil {
			return &db.Error{Op: db.OpDecode, Err: err}
		}
		*doc = toDocument(m)
		return nil
	}

	if err := res.Decode(out); err != nil {
		return &db.Error{Op: db.OpDecode, Err: err}
	}
	return nil
}

// parseID accepts a 24-character hex string or a raw 12-byte identifier.
func parseID(id string) (primitive.ObjectID, error) {
	if len(id) == 12 {
		var oid primitive.ObjectID
		copy(oid[:], id)
		return oid, nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", db.ErrInvalidID, id)
	}
	return oid, nil
}
