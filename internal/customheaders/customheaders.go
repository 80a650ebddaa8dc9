package customheaders

import (
	"errors"
	"fmt"
	"net/http"
	"net/textproto"
	"strings"

	"golang.org/x/net/http/httpguts"
)

var (
	errInvalidHeaderParameter = errors.New("header must be specified as 'Name: value'")
	errInvalidHeaderName      = errors.New("invalid header name")
	errInvalidHeaderValue     = errors.New("invalid header value")
)

// ParseHeaderString turns each "Name: value" entry of -header into a
// response header. Names are canonicalized and repeated names accumulate.
func ParseHeaderString(customHeaders []string) (http.Header, error) {
	headers := make(http.Header, len(customHeaders))

	for _, entry := range customHeaders {
		name, value, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("%w: %q", errInvalidHeaderParameter, entry)
		}

		name = strings.TrimSpace(name)
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, fmt.Errorf("%w: %q", errInvalidHeaderName, name)
		}

		name = textproto.CanonicalMIMEHeaderKey(name)
		value = strings.TrimSpace(value)
		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, fmt.Errorf("%w for %s", errInvalidHeaderValue, name)
		}

		headers[name] = append(headers[name], value)
	}

	return headers, nil
}

// AddCustomHeaders appends headers to the response, keeping what is already set
func AddCustomHeaders(w http.ResponseWriter, headers http.Header) {
	dst := w.Header()
	for name, values := range headers {
		dst[name] = append(dst[name], values...)
	}
}
