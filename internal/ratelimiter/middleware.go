package ratelimiter

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/pages-cgi/internal/httperrors"
	"gitlab.com/gitlab-org/pages-cgi/internal/logging"
	"gitlab.com/gitlab-org/pages-cgi/internal/request"
)

const headerXForwardedFor = "X-Forwarded-For"

// SourceIPLimiter returns middleware for rate-limiting clients based on their IP.
// When proxy headers are trusted they must be applied before this middleware
// so that RemoteAddr holds the real client IP.
func (rl *RateLimiter) SourceIPLimiter(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sourceIP := request.GetRemoteAddrWithoutPort(r)
		if !rl.SourceIPAllowed(sourceIP) {
			rl.logSourceIP(r, sourceIP)
			rl.blockedCount.Inc()
			httperrors.Serve429(w)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) logSourceIP(r *http.Request, sourceIP string) {
	logging.LogRequest(r).WithFields(logrus.Fields{
		"handler":                       "source_ip_rate_limiter",
		"remote_addr":                   r.RemoteAddr,
		"source_ip":                     sourceIP,
		"x_forwarded_for":               r.Header.Get(headerXForwardedFor),
		"rate_limiter_limit_per_second": float64(rl.limit),
		"rate_limiter_burst_size":       rl.burst,
	}).Info("source IP hit rate limit")
}
