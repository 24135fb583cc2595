package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/metrics"
	"github.com/andy11223386/akashicConnect/internal/model"
)

const (
	// AuthorCachePrefix is the key prefix for cached author metadata
	AuthorCachePrefix = "author:"

	// AuthorVersionPrefix is the key prefix for per-author invalidation counters
	AuthorVersionPrefix = "authorver:"

	// DefaultAuthorCacheTTL applies when NewAuthorCache is given a zero TTL
	DefaultAuthorCacheTTL = 5 * time.Minute

	fieldExists         = "exists"
	fieldNickname       = "nickname"
	fieldProfilePicture = "profilePicture"
)

// AuthorSource is the backing lookup the cache reads through to.
type AuthorSource interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// AuthorCache is a read-through cache of author metadata kept in one Redis
// hash per username. Users returned from a cache hit only carry Username,
// Nickname and ProfilePicture. Unknown usernames are cached as absent so
// orphaned and anonymous authors do not hit the store on every read.
//
// Every Invalidate bumps a per-author version. A miss records the version
// before loading from the source and only populates the cache if it is
// unchanged, so a load racing with a profile update never writes the old
// metadata back.
//
// Redis failures never fail a lookup; the cache is bypassed instead.
type AuthorCache struct {
	client *redis.Client
	source AuthorSource
	ttl    time.Duration
}

// NewAuthorCache wraps source with a Redis cache.
func NewAuthorCache(client *redis.Client, source AuthorSource, ttl time.Duration) *AuthorCache {
	if ttl <= 0 {
		ttl = DefaultAuthorCacheTTL
	}
	return &AuthorCache{client: client, source: source, ttl: ttl}
}

func authorKey(username string) string {
	return AuthorCachePrefix + username
}

func versionKey(username string) string {
	return AuthorVersionPrefix + username
}

// errStaleLoad aborts a cache write whose source read predates an Invalidate.
var errStaleLoad = errors.New("author invalidated during load")

// GetByUsername serves from Redis when possible and otherwise loads from the
// source and populates the cache.
func (c *AuthorCache) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	fields, err := c.client.HGetAll(ctx, authorKey(username)).Result()
	switch {
	case err != nil:
		metrics.AuthorCacheLookups.WithLabelValues("error").Inc()
		log.Warn().Str("component", "AuthorCache").Str("username", username).Err(err).Msg("cache read failed, bypassing")
	case len(fields) > 0:
		metrics.AuthorCacheLookups.WithLabelValues("hit").Inc()
		if fields[fieldExists] != "1" {
			return nil, model.ErrUserNotFound
		}
		return &model.User{
			Username:       username,
			Nickname:       fields[fieldNickname],
			ProfilePicture: fields[fieldProfilePicture],
		}, nil
	default:
		metrics.AuthorCacheLookups.WithLabelValues("miss").Inc()
	}

	version, verErr := c.version(ctx, username)

	user, err := c.source.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		if verErr == nil {
			c.store(ctx, username, version, map[string]any{fieldExists: "0"})
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if verErr != nil {
		return user, nil
	}

	c.store(ctx, username, version, map[string]any{
		fieldExists:         "1",
		fieldNickname:       user.Nickname,
		fieldProfilePicture: user.ProfilePicture,
	})
	return user, nil
}

// Invalidate drops the cached entry for username. Call it after any change to
// the user's nickname or profile picture, and after signup.
func (c *AuthorCache) Invalidate(ctx context.Context, username string) error {
	vkey := versionKey(username)

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, vkey)
	pipe.Expire(ctx, vkey, c.ttl)
	pipe.Del(ctx, authorKey(username))
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Str("component", "AuthorCache").Str("username", username).Err(err).Msg("invalidate failed")
		return err
	}
	return nil
}

// version returns the author's invalidation counter, "" when never invalidated.
func (c *AuthorCache) version(ctx context.Context, username string) (string, error) {
	v, err := c.client.Get(ctx, versionKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// store writes the hash and its TTL, but only while the author's version
// still equals the one observed before the source read.
func (c *AuthorCache) store(ctx context.Context, username, version string, fields map[string]any) {
	key := authorKey(username)
	vkey := versionKey(username)

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleLoad
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, fields)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, vkey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleLoad), errors.Is(err, redis.TxFailedErr):
		log.Debug().Str("component", "AuthorCache").Str("username", username).Msg("invalidated during load, not cached")
	default:
		log.Warn().Str("component", "AuthorCache").Str("username", username).Err(err).Msg("cache write failed")
	}
}
