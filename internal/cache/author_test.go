package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/andy11223386/akashicConnect/internal/model"
)

type mockAuthorSource struct {
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	calls           int
}

func (m *mockAuthorSource) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	m.calls++
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func newTestCache(t *testing.T, source AuthorSource) (*AuthorCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewAuthorCache(client, source, time.Minute), mr
}

func TestAuthorCache_ReadThrough(t *testing.T) {
	// ARRANGE
	source := &mockAuthorSource{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "u1", Username: username, Nickname: "Alice", ProfilePicture: "https://cdn/a.jpg"}, nil
		},
	}
	c, mr := newTestCache(t, source)
	ctx := context.Background()

	// ACT
	first, err := c.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	second, err := c.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}

	// ASSERT
	if source.calls != 1 {
		t.Errorf("source calls = %d, want 1", source.calls)
	}
	if second.Nickname != first.Nickname || second.ProfilePicture != first.ProfilePicture {
		t.Errorf("cached user = %+v, want %+v", second, first)
	}
	if ttl := mr.TTL(authorKey("alice")); ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}
}

func TestAuthorCache_CachesAbsence(t *testing.T) {
	source := &mockAuthorSource{}
	c, _ := newTestCache(t, source)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.GetByUsername(ctx, "ghost")
		if !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("lookup %d error = %v, want not found", i, err)
		}
	}
	if source.calls != 1 {
		t.Errorf("source calls = %d, want 1", source.calls)
	}
}

func TestAuthorCache_DoesNotCacheStoreErrors(t *testing.T) {
	storeErr := model.NewStoreError("find user", errors.New("down"))
	source := &mockAuthorSource{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, storeErr
		},
	}
	c, mr := newTestCache(t, source)

	_, err := c.GetByUsername(context.Background(), "alice")

	if !errors.Is(err, model.ErrStoreUnavailable) {
		t.Errorf("error = %v, want store unavailable", err)
	}
	if mr.Exists(authorKey("alice")) {
		t.Error("store failure must not be cached")
	}
}

func TestAuthorCache_Invalidate(t *testing.T) {
	nickname := "Alice"
	source := &mockAuthorSource{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{Username: username, Nickname: nickname}, nil
		},
	}
	c, _ := newTestCache(t, source)
	ctx := context.Background()

	_, _ = c.GetByUsername(ctx, "alice")
	nickname = "Ally"
	if err := c.Invalidate(ctx, "alice"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	got, err := c.GetByUsername(ctx, "alice")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Nickname != "Ally" {
		t.Errorf("nickname = %q, want Ally", got.Nickname)
	}
}

func TestAuthorCache_BypassesUnavailableRedis(t *testing.T) {
	source := &mockAuthorSource{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{Username: username, Nickname: "Alice"}, nil
		},
	}
	c, mr := newTestCache(t, source)
	mr.Close()

	got, err := c.GetByUsername(context.Background(), "alice")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Nickname != "Alice" {
		t.Errorf("nickname = %q, want Alice", got.Nickname)
	}
}

func TestAuthorCache_InvalidateDuringLoadIsNotOverwritten(t *testing.T) {
	// ARRANGE
	var c *AuthorCache
	source := &mockAuthorSource{}
	source.getByUsernameFn = func(ctx context.Context, username string) (*model.User, error) {
		// A profile update lands between the source read and the cache write.
		if source.calls == 1 {
			if err := c.Invalidate(ctx, username); err != nil {
				t.Fatalf("Invalidate: %v", err)
			}
			return &model.User{Username: username, Nickname: "Alice"}, nil
		}
		return &model.User{Username: username, Nickname: "Ally"}, nil
	}
	c, mr := newTestCache(t, source)
	ctx := context.Background()

	// ACT
	stale, err := c.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	fresh, err := c.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}

	// ASSERT
	if stale.Nickname != "Alice" {
		t.Errorf("first nickname = %q, want Alice", stale.Nickname)
	}
	if fresh.Nickname != "Ally" {
		t.Errorf("second nickname = %q, want Ally", fresh.Nickname)
	}
	if source.calls != 2 {
		t.Errorf("source calls = %d, want 2", source.calls)
	}
	if got := mr.HGet(authorKey("alice"), fieldNickname); got != "Ally" {
		t.Errorf("cached nickname = %q, want Ally", got)
	}
}
