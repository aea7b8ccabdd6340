package loader

import (
	"context"

	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	domplace "github.com/kailas-cloud/geofeed/internal/domain/place"
	domtweet "github.com/kailas-cloud/geofeed/internal/domain/tweet"
)

// PlaceStore rebuilds the places collection.
type PlaceStore interface {
	Reset(ctx context.Context) error
	InsertBatch(ctx context.Context, places []domplace.Place) (int, error)
}

// TweetStore rebuilds the tweets collection.
type TweetStore interface {
	Reset(ctx context.Context) error
	InsertBatch(ctx context.Context, tweets []domtweet.Tweet) (int, error)
}

// CensusStore rebuilds the census collections.
type CensusStore interface {
	Reset(ctx context.Context) error
	InsertFilters(ctx context.Context, filters []domcensus.Filter) (int, error)
	InsertRegions(ctx context.Context, regions []domcensus.Region) (int, error)
	InsertGeometries(ctx context.Context, geoms []domcensus.Geometry) (int, error)
}

// Scorer assigns a polarity to tweet text.
type Scorer interface {
	Polarity(text string) domtweet.Sentiment
}
