package handlers

import (
	"net/http"

	"github.com/rs/cors"

	"gitlab.com/gitlab-org/pages-cgi/internal/config"
)

// Scripts accept any method but only simple cross-origin requests are allowed
var corsHandler = cors.New(cors.Options{AllowedMethods: []string{http.MethodGet, http.MethodPost}})

// CorsHandler wraps handler with CORS support unless it is disabled
func CorsHandler(config *config.Config, handler http.Handler) http.Handler {
	if !config.General.DisableCrossOriginRequests {
		handler = corsHandler.Handler(handler)
	}
	return handler
}
