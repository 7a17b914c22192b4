package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgredis "github.com/oceannemj/site-web-JKM/pkg/redis"
)

const (
	viewStats         = "stats"
	viewNotifications = "notifications"
	// generationView holds a counter bumped by Invalidate. Snapshots are keyed
	// by the generation read before computing, so a snapshot computed across an
	// invalidation lands under a retired key and is never served.
	generationView = "generation"

	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Cache is the subset of the redis client used for dashboard snapshots.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	DashboardKey(view string) string
}

// CacheObserver counts cache lookups by result.
type CacheObserver interface {
	ObserveCache(result string)
}

// load returns the cached view when present, otherwise computes and stores it.
// Cache failures never fail the request.
func load[T any](ctx context.Context, s *service, view string, compute func(context.Context) T) T {
	if s.cache == nil {
		return compute(ctx)
	}

	key, err := s.viewKey(ctx, view)
	if err != nil {
		s.observeCache(cacheError)
		s.warn(ctx, view, "dashboard cache generation unreadable", err)
		return compute(ctx)
	}

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var cached T
		jsonErr := json.Unmarshal([]byte(raw), &cached)
		if jsonErr == nil {
			s.observeCache(cacheHit)
			return cached
		}
		s.observeCache(cacheError)
		s.warn(ctx, view, "dashboard cache entry unreadable", jsonErr)
	case errors.Is(err, pkgredis.Nil):
		s.observeCache(cacheMiss)
	default:
		s.observeCache(cacheError)
		s.warn(ctx, view, "dashboard cache read failed", err)
	}

	value := compute(ctx)
	payload, err := json.Marshal(value)
	if err != nil {
		s.warn(ctx, view, "dashboard cache encode failed", err)
		return value
	}
	if err := s.cache.Set(ctx, key, string(payload), s.opts.CacheTTL); err != nil {
		s.warn(ctx, view, "dashboard cache write failed", err)
	}
	return value
}

// viewKey returns the cache key of view for the current generation.
func (s *service) viewKey(ctx context.Context, view string) (string, error) {
	gen, err := s.cache.Get(ctx, s.cache.DashboardKey(generationView))
	switch {
	case errors.Is(err, pkgredis.Nil):
		gen = "0"
	case err != nil:
		return "", err
	}
	return s.cache.DashboardKey(view + ":" + gen), nil
}

// Invalidate retires every cached dashboard view by bumping the generation.
// Retired snapshots expire with their TTL.
func (s *service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	_, err := s.cache.Incr(ctx, s.cache.DashboardKey(generationView))
	return err
}

func (s *service) observeCache(result string) {
	if s.metrics != nil {
		s.metrics.ObserveCache(result)
	}
}
