package tweet

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/geofeed/internal/db"
	"github.com/kailas-cloud/geofeed/internal/domain"
	"github.com/kailas-cloud/geofeed/internal/domain/filter"
	domtweet "github.com/kailas-cloud/geofeed/internal/domain/tweet"
	"github.com/kailas-cloud/geofeed/internal/domain/tweet/patch"
)

// Collection holds tweet documents.
const Collection = "tweets"

// Field names of a stored tweet.
const (
	FieldUsername  = domtweet.FieldUsername
	FieldTweet     = domtweet.FieldText
	FieldDatetime  = domtweet.FieldDatetime
	FieldLocation  = domtweet.FieldLocation
	FieldSentiment = domtweet.FieldSentiment
)

// store is the consumer interface for tweets (ISP).
type store interface {
	Find(ctx context.Context, q *db.Query, out any) error
	FindByID(ctx context.Context, collection, id string, out any) error
	UpdateByID(ctx context.Context, collection, id string, set map[string]any) (bool, error)
	DeleteByID(ctx context.Context, collection, id string) (bool, error)
	InsertMany(ctx context.Context, collection string, docs []any) (int, error)
	Drop(ctx context.Context, collection string) error
	CreateIndexes(ctx context.Context, def *db.IndexDefinition) error
}

// Repo implements usecase/tweet.Repository.
type Repo struct {
	store store
}

// New creates a tweet repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Indexes returns the index set queries rely on.
func Indexes() *db.IndexDefinition {
	return db.NewIndex(Collection).
		Ascending(FieldUsername, FieldTweet, FieldDatetime, FieldSentiment).
		Sphere2D(FieldLocation).
		MustBuild()
}

// Find returns every tweet matching expr, without identifiers.
func (r *Repo) Find(ctx context.Context, expr filter.Expression) ([]domtweet.Tweet, error) {
	var dtos []tweetDTO
	q := &db.Query{Collection: Collection, Filter: expr}
	if err := r.store.Find(ctx, q, &dtos); err != nil {
		return nil, fmt.Errorf("find tweets: %w", err)
	}

	tweets := make([]domtweet.Tweet, 0, len(dtos))
	for i := range dtos {
		tweets = append(tweets, dtos[i].toDomain())
	}
	return tweets, nil
}

// Get returns one tweet by identifier.
func (r *Repo) Get(ctx context.Context, id string) (domtweet.Tweet, error) {
	var dto tweetDTO
	if err := r.store.FindByID(ctx, Collection, id, &dto); err != nil {
		return domtweet.Tweet{}, mapError("get tweet "+id, err)
	}
	return dto.toDomain(), nil
}

// Update applies p to one tweet. A matched document is success even when
// no value changed.
func (r *Repo) Update(ctx context.Context, id string, p *patch.Patch) error {
	matched, err := r.store.UpdateByID(ctx, Collection, id, buildSet(p))
	if err != nil {
		return mapError("update tweet "+id, err)
	}
	if !matched {
		return domain.ErrTweetNotFound
	}
	return nil
}

// Delete removes one tweet.
func (r *Repo) Delete(ctx context.Context, id string) error {
	deleted, err := r.store.DeleteByID(ctx, Collection, id)
	if err != nil {
		return mapError("delete tweet "+id, err)
	}
	if !deleted {
		return domain.ErrTweetNotFound
	}
	return nil
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

// InsertBatch stores tweets and returns how many were written.
func (r *Repo) InsertBatch(ctx context.Context, tweets []domtweet.Tweet) (int, error) {
	docs := make([]any, 0, len(tweets))
	for i := range tweets {
		docs = append(docs, toDTO(&tweets[i]))
	}
	n, err := r.store.InsertMany(ctx, Collection, docs)
	if err != nil {
		return n, fmt.Errorf("insert tweets: %w", err)
	}
	return n, nil
}

func mapError(op string, err error) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return domain.ErrTweetNotFound
	case errors.Is(err, db.ErrInvalidID):
		return domain.ErrInvalidID
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
