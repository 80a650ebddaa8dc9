package logging

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"

	"gitlab.com/gitlab-org/pages-cgi/internal/request"
)

const (
	fieldMethod        = "method"
	fieldClientIP      = "client_ip"
	fieldPath          = "path"
	fieldStatus        = "status"
	fieldStatusText    = "status_text"
	fieldCorrelationID = "correlation_id"
	fieldDurationMs    = "duration_ms"
)

// RequestLogger writes exactly one record per dispatched request
type RequestLogger struct {
	logger *logrus.Logger
}

// NewRequestLogger returns a RequestLogger writing to out in the given format,
// "text" for one `<METHOD> <CLIENT_IP> <PATH> -> <CODE> (<TEXT>)` line per
// request or "json" for one object per request.
func NewRequestLogger(format string, out io.Writer) (*RequestLogger, error) {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(logrus.InfoLevel)

	switch format {
	case "", "text":
		logger.SetFormatter(&lineFormatter{})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown request log format %q", format)
	}

	return &RequestLogger{logger: logger}, nil
}

// Log records the outcome of r
func (l *RequestLogger) Log(r *http.Request, status int, elapsed time.Duration) {
	l.logger.WithFields(logrus.Fields{
		fieldMethod:        r.Method,
		fieldClientIP:      request.GetRemoteAddrWithoutPort(r),
		fieldPath:          r.URL.Path,
		fieldStatus:        status,
		fieldStatusText:    http.StatusText(status),
		fieldCorrelationID: correlation.ExtractFromContext(r.Context()),
		fieldDurationMs:    elapsed.Milliseconds(),
	}).Info("request")
}

type lineFormatter struct{}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	line := fmt.Sprintf("%v %v %v -> %v (%v)\n",
		entry.Data[fieldMethod],
		entry.Data[fieldClientIP],
		entry.Data[fieldPath],
		entry.Data[fieldStatus],
		entry.Data[fieldStatusText],
	)

	return []byte(line), nil
}
