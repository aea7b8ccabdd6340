package tweet

import (
	"context"

	"github.com/kailas-cloud/geofeed/internal/domain/filter"
	domtweet "github.com/kailas-cloud/geofeed/internal/domain/tweet"
	"github.com/kailas-cloud/geofeed/internal/domain/tweet/patch"
)

// Repository defines the storage contract for tweets.
type Repository interface {
	Find(ctx context.Context, expr filter.Expression) ([]domtweet.Tweet, error)
	Get(ctx context.Context, id string) (domtweet.Tweet, error)
	Update(ctx context.Context, id string, p *patch.Patch) error
	Delete(ctx context.Context, id string) error
}
