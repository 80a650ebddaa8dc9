package customheaders

import "net/http"

// NewMiddleware sets the configured headers before the wrapped handler
// writes anything, so error pages carry them too.
func NewMiddleware(handler http.Handler, headers http.Header) http.Handler {
	if len(headers) == 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddCustomHeaders(w, headers)
		handler.ServeHTTP(w, r)
	})
}

// CloseConnection tells the client the connection will not be reused
func CloseConnection(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Connection", "close")
		handler.ServeHTTP(w, r)
	})
}
