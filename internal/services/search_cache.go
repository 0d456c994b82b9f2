package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangnt1552314/ytbeat/internal/models"
)

// TrackSearcher is anything that turns a query into tracks.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, query string, maxResults int) ([]models.Track, error)
}

// SearchCache stores search results by key.
type SearchCache interface {
	Get(ctx context.Context, key string) ([]models.Track, bool, error)
	Set(ctx context.Context, key string, tracks []models.Track) error
}

func searchCacheKey(query string, maxResults int) string {
	return fmt.Sprintf("search:%d:%s", maxResults, strings.ToLower(strings.TrimSpace(query)))
}

// CachedSearcher serves repeated queries from a cache.
type CachedSearcher struct {
	next  TrackSearcher
	cache SearchCache
}

func NewCachedSearcher(next TrackSearcher, cache SearchCache) *CachedSearcher {
	return &CachedSearcher{next: next, cache: cache}
}

func (s *CachedSearcher) SearchTracks(ctx context.Context, query string, maxResults int) ([]models.Track, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	key := searchCacheKey(query, maxResults)
	tracks, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("search cache read failed", slog.String("key", key), slog.Any("error", err))
	} else if ok {
		return tracks, nil
	}

	tracks, err = s.next.SearchTracks(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	if len(tracks) > 0 {
		if err := s.cache.Set(ctx, key, tracks); err != nil {
			slog.Warn("search cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return tracks, nil
}

// RedisCache keeps JSON-encoded results in Redis with a TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// OpenRedisCache parses url, pings the server and returns the cache.
func OpenRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisCache(rdb, ttl), nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.Track, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var tracks []models.Track
	if err := json.Unmarshal(raw, &tracks); err != nil {
		return nil, false, fmt.Errorf("decode cached tracks: %w", err)
	}
	return tracks, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, tracks []models.Track) error {
	raw, err := json.Marshal(tracks)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
