package census

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/geofeed/internal/domain"
	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	"github.com/kailas-cloud/geofeed/internal/domain/filter"
)

// Service handles census age and geometry lookups.
type Service struct {
	repo   Repository
	bounds domcensus.Bounds
}

// New creates a census service. bounds fill in missing age limits.
func New(repo Repository, bounds domcensus.Bounds) *Service {
	return &Service{repo: repo, bounds: bounds}
}

// Bounds returns the configured age interval.
func (s *Service) Bounds() domcensus.Bounds { return s.bounds }

// Lookup resolves matching age categories, then fetches regions projected
// to GEOID plus one field per category. The second query is skipped when
// no category matches.
func (s *Service) Lookup(ctx context.Context, q domcensus.Query) (domcensus.Result, error) {
	age := domcensus.AgeQuery{Min: s.bounds.Min, Max: s.bounds.Max, Gender: domcensus.GenderAny}
	if q.Age != nil {
		age = *q.Age
	}

	expr, err := filter.NewBuilder().
		Equals(domcensus.FieldType, domcensus.FilterTypeAge).
		Range(domcensus.FieldMin, filter.AtLeast(float64(age.Min))).
		Range(domcensus.FieldMax, filter.AtMost(float64(age.Max))).
		Match(domcensus.FieldGender, age.GenderPattern()).
		Build()
	if err != nil {
		return domcensus.Result{}, fmt.Errorf("build census filter: %w: %w", domain.ErrInvalidParameter, err)
	}

	categories, err := s.repo.FindFilters(ctx, expr)
	if err != nil {
		return domcensus.Result{}, fmt.Errorf("find census categories: %w", err)
	}

	res := domcensus.Result{
		Categories: categories,
		Fields:     make([]string, 0, len(categories)),
		Regions:    []domcensus.Region{},
	}
	for i := range categories {
		res.Fields = append(res.Fields, categories[i].FieldName())
	}
	if len(res.Fields) == 0 {
		return res, nil
	}

	regionExpr, err := filter.NewBuilder().
		Near(domcensus.FieldLocation, q.Near, q.Distance).
		Build()
	if err != nil {
		return domcensus.Result{}, fmt.Errorf("build region filter: %w: %w", domain.ErrInvalidParameter, err)
	}

	regions, err := s.repo.FindRegions(ctx, regionExpr, res.Fields)
	if err != nil {
		return domcensus.Result{}, fmt.Errorf("find census regions: %w", err)
	}
	res.Regions = regions
	return res, nil
}

// Geometries returns region polygons, restricted to geoids when given.
func (s *Service) Geometries(ctx context.Context, geoids []string) ([]domcensus.Geometry, error) {
	expr, err := filter.NewBuilder().In(domcensus.FieldGEOID, geoids).Build()
	if err != nil {
		return nil, fmt.Errorf("build geometry filter: %w: %w", domain.ErrInvalidParameter, err)
	}

	geoms, err := s.repo.FindGeometries(ctx, expr)
	if err != nil {
		return nil, fmt.Errorf("find region geometries: %w", err)
	}
	return geoms, nil
}
