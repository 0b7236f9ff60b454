package common

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request from key is allowed now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Name() string
}

// LocalLimiter keeps one token bucket per key in process memory. Buckets of
// idle keys expire so the map does not grow without bound.
type LocalLimiter struct {
	buckets *cache.Cache
	rps     rate.Limit
	burst   int
	mu      sync.Mutex
}

var _ Limiter = (*LocalLimiter)(nil)

// NewLocalLimiter allows rps requests per second per key with the given burst.
func NewLocalLimiter(rps float64, burst int, idleTTL time.Duration) *LocalLimiter {
	return &LocalLimiter{
		buckets: cache.New(idleTTL, 2*idleTTL),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (l *LocalLimiter) Name() string { return "local" }

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.bucket(key).Allow(), nil
}

func (l *LocalLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, found := l.buckets.Get(key); found {
		// Touch so active keys stay cached.
		l.buckets.SetDefault(key, v)
		return v.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(l.rps, l.burst)
	l.buckets.SetDefault(key, limiter)
	return limiter
}
