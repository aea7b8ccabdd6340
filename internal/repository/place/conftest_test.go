package place

import (
	"context"

	"github.com/kailas-cloud/geofeed/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn          func(ctx context.Context, q *db.Query, out any) error
	groupSortedFn   func(ctx context.Context, collection, field string) ([]any, error)
	distinctFn      func(ctx context.Context, collection, field string) ([]any, error)
	insertManyFn    func(ctx context.Context, collection string, docs []any) (int, error)
	dropFn          func(ctx context.Context, collection string) error
	createIndexesFn func(ctx context.Context, def *db.IndexDefinition) error
}

func (m *mockStore) Find(ctx context.Context, q *db.Query, out any) error {
	if m.findFn != nil {
		return m.findFn(ctx, q, out)
	}
	return nil
}

func (m *mockStore) GroupSorted(ctx context.Context, collection, field string) ([]any, error) {
	if m.groupSortedFn != nil {
		return m.groupSortedFn(ctx, collection, field)
	}
	return nil, nil
}

func (m *mockStore) Distinct(ctx context.Context, collection, field string) ([]any, error) {
	if m.distinctFn != nil {
		return m.distinctFn(ctx, collection, field)
	}
	return nil, nil
}

func (m *mockStore) InsertMany(ctx context.Context, collection string, docs []any) (int, error) {
	if m.insertManyFn != nil {
		return m.insertManyFn(ctx, collection, docs)
	}
	return len(docs), nil
}

func (m *mockStore) Drop(ctx context.Context, collection string) error {
	if m.dropFn != nil {
		return m.dropFn(ctx, collection)
	}
	return nil
}

func (m *mockStore) CreateIndexes(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexesFn != nil {
		return m.createIndexesFn(ctx, def)
	}
	return nil
}
