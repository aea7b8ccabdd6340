package place

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/geofeed/internal/domain"
	"github.com/kailas-cloud/geofeed/internal/domain/filter"
	domplace "github.com/kailas-cloud/geofeed/internal/domain/place"
)

// Service handles place lookups.
type Service struct {
	repo Repository
}

// New creates a place service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search returns places matching every supplied parameter.
// Comma separated names and types match any of their terms.
func (s *Service) Search(ctx context.Context, q domplace.Query) ([]domplace.Place, error) {
	expr, err := filter.NewBuilder().
		ContainsAny(domplace.FieldName, q.Names).
		ContainsAny(domplace.FieldType, q.Types).
		Near(domplace.FieldLocation, q.Near, q.Distance).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build place filter: %w: %w", domain.ErrInvalidParameter, err)
	}

	places, err := s.repo.Find(ctx, expr)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	return places, nil
}

// Types returns every distinct place type in ascending order.
func (s *Service) Types(ctx context.Context) ([]string, error) {
	types, err := s.repo.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("list place types: %w", err)
	}
	return types, nil
}

// Names returns every distinct place name.
func (s *Service) Names(ctx context.Context) ([]string, error) {
	names, err := s.repo.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("list place names: %w", err)
	}
	return names, nil
}
