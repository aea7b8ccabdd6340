package place

import (
	"context"

	"github.com/kailas-cloud/geofeed/internal/domain/filter"
	domplace "github.com/kailas-cloud/geofeed/internal/domain/place"
)

// Repository defines the storage contract for places.
type Repository interface {
	Find(ctx context.Context, expr filter.Expression) ([]domplace.Place, error)
	Types(ctx context.Context) ([]string, error)
	Names(ctx context.Context) ([]string, error)
}
