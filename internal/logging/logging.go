package logging

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	"gitlab.com/gitlab-org/labkit/log"
)

const defaultFormat = "text"

// ConfigureLogging sets up the global logger. Verbose output goes down to
// trace so that filesystem lookups are visible.
func ConfigureLogging(format string, verbose bool) error {
	if format == "" {
		format = defaultFormat
	}

	level := "info"
	if verbose {
		level = "trace"
	}

	_, err := log.Initialize(log.WithFormatter(format), log.WithLogLevel(level))

	return err
}

// LogRequest returns an entry tagged with the request's correlation ID and target
func LogRequest(r *http.Request) *logrus.Entry {
	return log.WithFields(log.Fields{
		"correlation_id": correlation.ExtractFromContext(r.Context()),
		"host":           r.Host,
		"method":         r.Method,
		"path":           r.URL.Path,
		"remote_addr":    r.RemoteAddr,
	})
}
