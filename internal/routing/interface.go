package routing

import (
	"context"
	"net/http"
	"time"

	"gitlab.com/gitlab-org/pages-cgi/internal/serving/fileresolver"
	"gitlab.com/gitlab-org/pages-cgi/internal/serving/script"
)

//go:generate mockgen -source=interface.go -destination=mock/routing_mock.go -package=mock

// Resolver classifies request paths
type Resolver interface {
	Resolve(ctx context.Context, requestPath string) (fileresolver.Target, error)
}

// StaticResponder serves a file relative to the root as a complete response
type StaticResponder interface {
	ServeFile(w http.ResponseWriter, r *http.Request, name string) error
}

// ScriptRunner executes the script at an absolute path for a request
type ScriptRunner interface {
	Run(r *http.Request, path string) (*script.Result, error)
}

// RequestLogger records the outcome of every dispatched request
type RequestLogger interface {
	Log(r *http.Request, status int, elapsed time.Duration)
}
