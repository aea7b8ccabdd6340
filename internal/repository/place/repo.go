package place

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/geofeed/internal/db"
	"github.com/kailas-cloud/geofeed/internal/domain/filter"
	domplace "github.com/kailas-cloud/geofeed/internal/domain/place"
)

// Collection holds place documents.
const Collection = "places"

// Field names of a stored place.
const (
	FieldName     = domplace.FieldName
	FieldType     = domplace.FieldType
	FieldCheckins = domplace.FieldCheckins
	FieldLocation = domplace.FieldLocation
)

// store is the consumer interface for places (ISP).
type store interface {
	Find(ctx context.Context, q *db.Query, out any) error
	GroupSorted(ctx context.Context, collection, field string) ([]any, error)
	Distinct(ctx context.Context, collection, field string) ([]any, error)
	InsertMany(ctx context.Context, collection string, docs []any) (int, error)
	Drop(ctx context.Context, collection string) error
	CreateIndexes(ctx context.Context, def *db.IndexDefinition) error
}

// Repo implements usecase/place.Repository.
type Repo struct {
	store store
}

// New creates a place repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Indexes returns the index set queries rely on.
func Indexes() *db.IndexDefinition {
	return db.NewIndex(Collection).
		Ascending(FieldName, FieldType).
		Sphere2D(FieldLocation).
		MustBuild()
}

// Find returns every place matching expr.
func (r *Repo) Find(ctx context.Context, expr filter.Expression) ([]domplace.Place, error) {
	var dtos []placeDTO
	q := &db.Query{Collection: Collection, Filter: expr}
	if err := r.store.Find(ctx, q, &dtos); err != nil {
		return nil, fmt.Errorf("find places: %w", err)
	}

	places := make([]domplace.Place, 0, len(dtos))
	for i := range dtos {
		places = append(places, dtos[i].toDomain())
	}
	return places, nil
}

// Types returns the distinct place types in ascending order.
func (r *Repo) Types(ctx context.Context) ([]string, error) {
	values, err := r.store.GroupSorted(ctx, Collection, FieldType)
	if err != nil {
		return nil, fmt.Errorf("group place types: %w", err)
	}
	return toStrings(values), nil
}

// Names returns the distinct place names.
func (r *Repo) Names(ctx context.Context) ([]string, error) {
	values, err := r.store.Distinct(ctx, Collection, FieldName)
	if err != nil {
		return nil, fmt.Errorf("distinct place names: %w", err)
	}
	return toStrings(values), nil
}

// Reset drops the collection and recreates its indexes.
func (r *Repo) Reset(ctx context.Context) error {
	if err := r.store.Drop(ctx, Collection); err != nil {
		return fmt.Errorf("drop %s: %w", Collection, err)
	}
	if err := r.store.CreateIndexes(ctx, Indexes()); err != nil {
		return fmt.Errorf("create indexes %s: %w", Collection, err)
	}
	return nil
}

// InsertBatch stores places and returns how many were written.
func (r *Repo) InsertBatch(ctx context.Context, places []domplace.Place) (int, error) {
	docs := make([]any, 0, len(places))
	for i := range places {
		docs = append(docs, toDTO(&places[i]))
	}
	n, err := r.store.InsertMany(ctx, Collection, docs)
	if err != nil {
		return n, fmt.Errorf("insert places: %w", err)
	}
	return n, nil
}

// toStrings keeps string values and drops missing ones.
func toStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch s := v.(type) {
		case string:
			out = append(out, s)
		case nil:
		default:
			out = append(out, fmt.Sprint(s))
		}
	}
	return out
}
