package lru

import (
	"time"

	"github.com/karlseguin/ccache/v2"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// an item is moved to the front of the list after this many gets
	getsPerPromote = 64
	// a full cache drops 1/16 of its items
	pruneDivisor = 16
)

// Metrics receives the cache size and the outcome of every lookup, both
// labelled with the cache name
type Metrics struct {
	Entries  *prometheus.GaugeVec
	Requests *prometheus.CounterVec
}

// Cache is an expiring LRU of values of type V keyed by string
type Cache[V any] struct {
	name    string
	ttl     time.Duration
	cache   *ccache.Cache
	metrics Metrics
}

// New returns a cache holding at most size items, each for ttl
func New[V any](name string, size int64, ttl time.Duration, metrics Metrics) *Cache[V] {
	cfg := ccache.Configure().
		MaxSize(size).
		ItemsToPrune(uint32(size/pruneDivisor) + 1).
		GetsPerPromote(getsPerPromote).
		OnDelete(func(*ccache.Item) {
			metrics.Entries.WithLabelValues(name).Dec()
		})

	return &Cache[V]{
		name:    name,
		ttl:     ttl,
		cache:   ccache.New(cfg),
		metrics: metrics,
	}
}

// FindOrFetch returns the live value stored for key, or stores and returns
// the value built by fetch. Errors from fetch are returned and not cached.
func (c *Cache[V]) FindOrFetch(key string, fetch func() (V, error)) (V, error) {
	if item := c.cache.Get(key); item != nil && !item.Expired() {
		if v, ok := item.Value().(V); ok {
			c.observe("hit")
			return v, nil
		}
	}

	v, err := fetch()
	if err != nil {
		c.observe("error")
		return v, err
	}

	c.observe("miss")
	c.metrics.Entries.WithLabelValues(c.name).Inc()
	c.cache.Set(key, v, c.ttl)

	return v, nil
}

func (c *Cache[V]) observe(outcome string) {
	c.metrics.Requests.WithLabelValues(c.name, outcome).Inc()
}

// Stop terminates the background worker of the cache
func (c *Cache[V]) Stop() {
	c.cache.Stop()
}
