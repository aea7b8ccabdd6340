package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"

	"github.com/kailas-cloud/geofeed/internal/db"
)

// Acquire sets key to a fresh token with SET NX EX.
func (s *Store) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	cmd := s.b().Set().Key(key).Value(token).Nx().Ex(ttl).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return "", db.ErrLockHeld
		}
		return "", &db.Error{Op: db.OpSet, Err: err}
	}
	return token, nil
}

// Release deletes key only while it still holds token.
// A missing key is not an error: the lock already expired.
func (s *Store) Release(ctx context.Context, key, token string) error {
	cur, err := s.do(ctx, s.b().Get().Key(key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil
		}
		return &db.Error{Op: db.OpGet, Err: err}
	}
	if cur != token {
		return db.ErrLockHeld
	}
	if err := s.do(ctx, s.b().Del().Key(key).Build()).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}
