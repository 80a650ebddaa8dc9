package request

import (
	"net"
	"net/http"
)

// GetRemoteAddrWithoutPort strips the port from the r.RemoteAddr so that only
// the client IP remains. RemoteAddr is already rewritten when proxy headers
// are trusted.
func GetRemoteAddrWithoutPort(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// IsGet reports whether the request may be answered with static content
func IsGet(r *http.Request) bool {
	return r.Method == http.MethodGet
}
