package tweet

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/geofeed/internal/domain"
	"github.com/kailas-cloud/geofeed/internal/domain/filter"
	domtweet "github.com/kailas-cloud/geofeed/internal/domain/tweet"
	"github.com/kailas-cloud/geofeed/internal/domain/tweet/patch"
)

// Service handles tweet lookups and single-tweet mutations.
type Service struct {
	repo Repository
}

// New creates a tweet service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search returns tweets matching every supplied parameter.
func (s *Service) Search(ctx context.Context, q domtweet.Query) ([]domtweet.Tweet, error) {
	b := filter.NewBuilder().
		Exact(domtweet.FieldUsername, q.Username).
		Contains(domtweet.FieldText, q.Text).
		Near(domtweet.FieldLocation, q.Near, q.Distance)
	if q.Sentiment != nil {
		b = b.Equals(domtweet.FieldSentiment, int(*q.Sentiment))
	}

	expr, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build tweet filter: %w: %w", domain.ErrInvalidParameter, err)
	}

	tweets, err := s.repo.Find(ctx, expr)
	if err != nil {
		return nil, fmt.Errorf("search tweets: %w", err)
	}
	return tweets, nil
}

// Get retrieves one tweet.
func (s *Service) Get(ctx context.Context, id string) (domtweet.Tweet, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtweet.Tweet{}, fmt.Errorf("get tweet: %w", err)
	}
	return t, nil
}

// Update applies a partial update. An empty patch only checks that the
// tweet exists.
func (s *Service) Update(ctx context.Context, id string, p patch.Patch) error {
	if err := s.repo.Update(ctx, id, &p); err != nil {
		return fmt.Errorf("update tweet: %w", err)
	}
	return nil
}

// Delete removes one tweet.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	return nil
}
