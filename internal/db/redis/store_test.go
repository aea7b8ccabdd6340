package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/geofeed/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_NoAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

// --- lock.go tests ---

func isSetNX(key string) func(cmd []string) bool {
	return func(cmd []string) bool {
		if len(cmd) < 4 || cmd[0] != "SET" || cmd[1] != key {
			return false
		}
		hasNX := false
		for _, a := range cmd[3:] {
			if a == "NX" {
				hasNX = true
			}
		}
		return hasNX
	}
}

func TestAcquire_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(isSetNX("geofeed:loader:lock"))).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	token, err := s.Acquire(context.Background(), "geofeed:loader:lock", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected non-empty token")
	}
}

func TestAcquire_Held(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(isSetNX("lock"))).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Acquire(context.Background(), "lock", time.Minute)
	if !errors.Is(err, db.ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}
}

func TestAcquire_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("connection refused")))

	s := NewStoreForTest(c)
	_, err := s.Acquire(context.Background(), "lock", time.Minute)

	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpSet {
		t.Fatalf("expected *db.Error with SET op, got %v", err)
	}
}

func TestRelease_Owner(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("GET", "lock")).
			Return(mock.Result(mock.RedisString("tok-1"))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("DEL", "lock")).
			Return(mock.Result(mock.RedisInt64(1))),
	)

	s := NewStoreForTest(c)
	if err := s.Release(context.Background(), "lock", "tok-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRelease_OtherOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "lock")).
		Return(mock.Result(mock.RedisString("tok-2")))

	s := NewStoreForTest(c)
	err := s.Release(context.Background(), "lock", "tok-1")
	if !errors.Is(err, db.ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}
}

func TestRelease_Expired(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "lock")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	if err := s.Release(context.Background(), "lock", "tok-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
