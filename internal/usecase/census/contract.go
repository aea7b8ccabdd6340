package census

import (
	"context"

	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	"github.com/kailas-cloud/geofeed/internal/domain/filter"
)

// Repository defines the storage contract for census data.
type Repository interface {
	FindFilters(ctx context.Context, expr filter.Expression) ([]domcensus.Filter, error)
	FindRegions(ctx context.Context, expr filter.Expression, fields []string) ([]domcensus.Region, error)
	FindGeometries(ctx context.Context, expr filter.Expression) ([]domcensus.Geometry, error)
}
