package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// VFSOperations metric for VFS operations (lstat, evalsymlinks, open)
	VFSOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pages_cgi_vfs_operations_total",
			Help: "The number of VFS operations",
		},
		[]string{"vfs_name", "operation", "success"},
	)

	// ResolvedTargets counts request paths by the kind they were classified as
	ResolvedTargets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pages_cgi_resolved_targets_total",
			Help: "The number of request paths resolved, by target kind",
		},
		[]string{"kind"},
	)

	// StaticFileSize measures the size of the static files served
	StaticFileSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pages_cgi_static_file_size_bytes",
			Help:    "The size in bytes of the static files served",
			Buckets: prometheus.ExponentialBuckets(256, 4, 10), // 256B to 64MiB
		},
	)

	// ScriptExecutions counts script runs by outcome: success, failure (non-zero exit) or error
	ScriptExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pages_cgi_script_executions_total",
			Help: "The number of script executions by outcome",
		},
		[]string{"outcome"},
	)

	// ScriptExecutionDuration measures the wall clock time of a script run
	ScriptExecutionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pages_cgi_script_execution_duration_seconds",
			Help:    "The time in seconds a script took from spawn to exit",
			Buckets: prometheus.DefBuckets,
		},
	)

	// LimitListenerMaxConns is the max number of connections allowed by the listener
	LimitListenerMaxConns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pages_cgi_limit_listener_max_conns",
			Help: "The maximum number of concurrent connections allowed by the listener",
		},
	)

	// LimitListenerConcurrentConns is the number of connections currently served
	LimitListenerConcurrentConns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pages_cgi_limit_listener_concurrent_conns",
			Help: "The number of concurrent connections",
		},
	)

	// LimitListenerWaitingConns is the number of connections waiting for a free slot
	LimitListenerWaitingConns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pages_cgi_limit_listener_waiting_conns",
			Help: "The number of connections waiting to be accepted",
		},
	)

	// RateLimitSourceIPCacheRequests is the number of cache hits/misses
	RateLimitSourceIPCacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pages_cgi_rate_limit_source_ip_cache_requests",
			Help: "The number of source_ip cache hits/misses in the rate limiter",
		},
		[]string{"op", "cache"},
	)

	// RateLimitSourceIPCachedEntries is the number of entries in the cache
	RateLimitSourceIPCachedEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pages_cgi_rate_limit_source_ip_cached_entries",
			Help: "The number of entries in the source_ip cache",
		},
		[]string{"op"},
	)

	// RateLimitSourceIPBlockedCount is the number of requests rejected by the source IP rate limiter
	RateLimitSourceIPBlockedCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pages_cgi_rate_limit_source_ip_blocked_count",
			Help: "The number of requests rejected by the source IP rate limiter",
		},
	)
)

// MustRegister collectors with the Prometheus client
func MustRegister() {
	prometheus.MustRegister(
		VFSOperations,
		ResolvedTargets,
		StaticFileSize,
		ScriptExecutions,
		ScriptExecutionDuration,
		LimitListenerMaxConns,
		LimitListenerConcurrentConns,
		LimitListenerWaitingConns,
		RateLimitSourceIPCacheRequests,
		RateLimitSourceIPCachedEntries,
		RateLimitSourceIPBlockedCount,
	)
}
