package routing

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"gitlab.com/gitlab-org/pages-cgi/internal/httperrors"
	"gitlab.com/gitlab-org/pages-cgi/internal/logging"
	"gitlab.com/gitlab-org/pages-cgi/internal/request"
	"gitlab.com/gitlab-org/pages-cgi/internal/serving/fileresolver"
	"gitlab.com/gitlab-org/pages-cgi/internal/serving/script"
)

// Dispatcher turns every request into exactly one static response, script
// execution or error, and logs the outcome
type Dispatcher struct {
	resolver Resolver
	static   StaticResponder
	scripts  ScriptRunner
	logger   RequestLogger
	now      func() time.Time
}

// NewDispatcher returns a Dispatcher using the given collaborators
func NewDispatcher(resolver Resolver, static StaticResponder, scripts ScriptRunner, logger RequestLogger) *Dispatcher {
	return &Dispatcher{
		resolver: resolver,
		static:   static,
		scripts:  scripts,
		logger:   logger,
		now:      time.Now,
	}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := d.now()

	status := d.dispatch(w, r)

	d.logger.Log(r, status, d.now().Sub(start))
}

func (d *Dispatcher) dispatch(w http.ResponseWriter, r *http.Request) int {
	target, err := d.resolver.Resolve(r.Context(), r.URL.Path)

	switch target.Kind {
	case fileresolver.Forbidden:
		logging.LogRequest(r).WithError(err).Debug("forbidden")
		httperrors.Serve403(w)
		return http.StatusForbidden

	case fileresolver.Static:
		if !request.IsGet(r) {
			httperrors.Serve405(w)
			return http.StatusMethodNotAllowed
		}

		if err := d.static.ServeFile(w, r, target.Name); err != nil {
			return staticFailure(w, r, err)
		}

		return http.StatusOK

	case fileresolver.Script:
		return d.serveScript(w, r, target.Path)

	default:
		if !request.IsGet(r) {
			httperrors.Serve405(w)
			return http.StatusMethodNotAllowed
		}

		httperrors.Serve404(w)
		return http.StatusNotFound
	}
}

// staticFailure answers a file that resolved but could not be served. Open
// failures are classified the same way path resolution classifies them.
func staticFailure(w http.ResponseWriter, r *http.Request, err error) int {
	switch {
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.ELOOP):
		logging.LogRequest(r).WithError(err).Debug("static file not readable")
		httperrors.Serve403(w)
		return http.StatusForbidden

	case errors.Is(err, fs.ErrNotExist):
		// removed between resolution and open
		httperrors.Serve404(w)
		return http.StatusNotFound

	default:
		httperrors.Serve500WithRequest(w, r, "failed to serve static file", err)
		return http.StatusInternalServerError
	}
}

func (d *Dispatcher) serveScript(w http.ResponseWriter, r *http.Request, path string) int {
	result, err := d.scripts.Run(r, path)

	switch {
	case errors.Is(err, script.ErrBodyTooLarge):
		httperrors.Serve413(w)
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, context.Canceled):
		// the client is gone, there is nobody to report the failure to
		logging.LogRequest(r).WithError(err).Info("request canceled while script was running")
		httperrors.ServeScriptFailure(w)
		return http.StatusInternalServerError

	case err != nil:
		httperrors.ServeScriptError(w, r, path, err)
		return http.StatusInternalServerError
	}

	body := result.Body()
	status := result.Status()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)

	return status
}
