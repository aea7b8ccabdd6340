package census

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/geofeed/internal/db"
	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	"github.com/kailas-cloud/geofeed/internal/domain/filter"
)

// Collections holding census data.
const (
	FiltersCollection    = "census_filters"
	RegionsCollection    = "regions"
	GeometriesCollection = "region_geometries"
)

// Field names shared by census collections.
const (
	FieldGEOID    = domcensus.FieldGEOID
	FieldLocation = domcensus.FieldLocation
	FieldGeometry = domcensus.FieldGeometry
	FieldType     = domcensus.FieldType
	FieldGender   = domcensus.FieldGender
	FieldMin      = domcensus.FieldMin
	FieldMax      = domcensus.FieldMax
)

// store is the consumer interface for census data (ISP).
type store interface {
	Find(ctx context.Context, q *db.Query, out any) error
	InsertMany(ctx context.Context, collection string, docs []any) (int, error)
	Drop(ctx context.Context, collection string) error
	CreateIndexes(ctx context.Context, def *db.IndexDefinition) error
}

// Repo implements usecase/census.Repository.
type Repo struct {
	store store
}

// New creates a census repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Indexes returns the index sets of every census collection.
func Indexes() []*db.IndexDefinition {
	return []*db.IndexDefinition{
		db.NewIndex(FiltersCollection).Ascending(FieldType, FieldGender, FieldMin, FieldMax).MustBuild(),
		db.NewIndex(RegionsCollection).Ascending(FieldGEOID).Sphere2D(FieldLocation).MustBuild(),
		db.NewIndex(GeometriesCollection).Ascending(FieldGEOID).Sphere2D(FieldGeometry).MustBuild(),
	}
}

// FindFilters returns the census filters matching expr.
func (r *Repo) FindFilters(ctx context.Context, expr filter.Expression) ([]domcensus.Filter, error) {
	var dtos []filterDTO
	q := &db.Query{Collection: FiltersCollection, Filter: expr}
	if err := r.store.Find(ctx, q, &dtos); err != nil {
		return nil, fmt.Errorf("find census filters: %w", err)
	}

	out := make([]domcensus.Filter, 0, len(dtos))
	for i := range dtos {
		out = append(out, dtos[i].toDomain())
	}
	return out, nil
}

// FindRegions returns regions matching expr projected to GEOID plus fields.
func (r *Repo) FindRegions(ctx context.Context, expr filter.Expression, fields []string) ([]domcensus.Region, error) {
	projection := make([]string, 0, len(fields)+1)
	projection = append(projection, FieldGEOID)
	projection = append(projection, fields...)

	var docs []db.Document
	q := &db.Query{Collection: RegionsCollection, Filter: expr, Fields: projection}
	if err := r.store.Find(ctx, q, &docs); err != nil {
		return nil, fmt.Errorf("find regions: %w", err)
	}
	return toRegions(docs), nil
}

// FindGeometries returns region polygons matching expr.
func (r *Repo) FindGeometries(ctx context.Context, expr filter.Expression) ([]domcensus.Geometry, error) {
	var docs []db.Document
	q := &db.Query{
		Collection: GeometriesCollection,
		Filter:     expr,
		Fields:     []string{FieldGEOID, FieldGeometry},
	}
	if err := r.store.Find(ctx, q, &docs); err != nil {
		return nil, fmt.Errorf("find region geometries: %w", err)
	}
	return toGeometries(docs), nil
}

// Reset drops every census collection and recreates its indexes.
func (r *Repo) Reset(ctx context.Context) error {
	for _, def := range Indexes() {
		if err := r.store.Drop(ctx, def.Collection); err != nil {
			return fmt.Errorf("drop %s: %w", def.Collection, err)
		}
		if err := r.store.CreateIndexes(ctx, def); err != nil {
			return fmt.Errorf("create indexes %s: %w", def.Collection, err)
		}
	}
	return nil
}

// InsertFilters stores census filters.
func (r *Repo) InsertFilters(ctx context.Context, filters []domcensus.Filter) (int, error) {
	docs := make([]any, 0, len(filters))
	for i := range filters {
		docs = append(docs, toFilterDTO(&filters[i]))
	}
	return r.insert(ctx, FiltersCollection, docs)
}

// InsertRegions stores region records.
func (r *Repo) InsertRegions(ctx context.Context, regions []domcensus.Region) (int, error) {
	docs := make([]any, 0, len(regions))
	for _, reg := range regions {
		docs = append(docs, map[string]any(reg))
	}
	return r.insert(ctx, RegionsCollection, docs)
}

// InsertGeometries stores region polygons.
func (r *Repo) InsertGeometries(ctx context.Context, geoms []domcensus.Geometry) (int, error) {
	docs := make([]any, 0, len(geoms))
	for _, g := range geoms {
		docs = append(docs, map[string]any(g))
	}
	return r.insert(ctx, GeometriesCollection, docs)
}

func (r *Repo) insert(ctx context.Context, collection string, docs []any) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	n, err := r.store.InsertMany(ctx, collection, docs)
	if err != nil {
		return n, fmt.Errorf("insert %s: %w", collection, err)
	}
	return n, nil
}
