package ratelimiter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"gitlab.com/gitlab-org/pages-cgi/internal/lru"
	"gitlab.com/gitlab-org/pages-cgi/metrics"
)

const (
	// DefaultSourceIPLimitPerSecond is the rate at which a source IP regains tokens
	DefaultSourceIPLimitPerSecond = 20.0
	// DefaultSourceIPBurstSize is the number of tokens a new source IP starts with
	DefaultSourceIPBurstSize = 100

	// buckets of IPs idle for longer are forgotten, which refills them
	sourceIPTTL     = time.Minute
	sourceIPEntries = 5000
)

// Option configures a RateLimiter
type Option func(*RateLimiter)

// RateLimiter keeps one token bucket per source IP in an expiring LRU
type RateLimiter struct {
	now          func() time.Time
	limit        rate.Limit
	burst        int
	blockedCount prometheus.Counter
	buckets      *lru.Cache[*rate.Limiter]
}

// New returns a RateLimiter using the defaults unless overridden by opts
func New(opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		now:          time.Now,
		limit:        rate.Limit(DefaultSourceIPLimitPerSecond),
		burst:        DefaultSourceIPBurstSize,
		blockedCount: metrics.RateLimitSourceIPBlockedCount,
		buckets: lru.New[*rate.Limiter]("source_ip", sourceIPEntries, sourceIPTTL, lru.Metrics{
			Entries:  metrics.RateLimitSourceIPCachedEntries,
			Requests: metrics.RateLimitSourceIPCacheRequests,
		}),
	}

	for _, opt := range opts {
		opt(rl)
	}

	return rl
}

// WithNow replaces the clock, for tests
func WithNow(now func() time.Time) Option {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// WithSourceIPLimitPerSecond sets how many requests per second a source IP may sustain
func WithSourceIPLimitPerSecond(limit float64) Option {
	return func(rl *RateLimiter) {
		rl.limit = rate.Limit(limit)
	}
}

// WithSourceIPBurstSize sets how many requests a source IP may send at once
func WithSourceIPBurstSize(burst int) Option {
	return func(rl *RateLimiter) {
		rl.burst = burst
	}
}

func (rl *RateLimiter) newBucket() (*rate.Limiter, error) {
	return rate.NewLimiter(rl.limit, rl.burst), nil
}

// SourceIPAllowed takes one token from the bucket of sourceIP and reports
// whether there was one
func (rl *RateLimiter) SourceIPAllowed(sourceIP string) bool {
	bucket, _ := rl.buckets.FindOrFetch(sourceIP, rl.newBucket)

	return bucket.AllowN(rl.now(), 1)
}
