package script

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const queryPrefix = "Query_"

type environment struct {
	keys   []string
	values map[string]string
}

func newEnvironment() *environment {
	return &environment{values: make(map[string]string)}
}

func (e *environment) set(key, value string) {
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}

	e.values[key] = value
}

func (e *environment) list() []string {
	env := make([]string, 0, len(e.keys))
	for _, key := range e.keys {
		env = append(env, key+"="+e.values[key])
	}

	return env
}

// BuildEnv returns the environment of a script handling r. Header names are
// lowercased. Later sources win over earlier ones: inherited, request
// headers, Method and Path, Query_*.
func BuildEnv(r *http.Request, inherited []string) []string {
	env := newEnvironment()

	for _, kv := range inherited {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}

		env.set(key, value)
	}

	setHeaders(env, r)

	env.set("Method", r.Method)
	env.set("Path", r.URL.Path)

	setQuery(env, r.URL.RawQuery)

	return env.list()
}

func setHeaders(env *environment, r *http.Request) {
	headers := r.Header.Clone()
	if headers == nil {
		headers = http.Header{}
	}

	// net/http moves the Host header out of r.Header
	if r.Host != "" {
		headers.Set("Host", r.Host)
	}

	for _, key := range sortedKeys(headers) {
		if !httpguts.ValidHeaderFieldName(key) {
			continue
		}

		values := headers[key]
		if len(values) == 0 {
			continue
		}

		// net/http canonicalizes names on the way in, scripts see them lowercased
		env.set(strings.ToLower(key), envValue(values[len(values)-1]))
	}
}

func setQuery(env *environment, rawQuery string) {
	// pairs that fail to parse are dropped, the rest are still usable
	query, _ := url.ParseQuery(rawQuery)

	for _, key := range sortedKeys(query) {
		if strings.ContainsAny(key, "=\x00") {
			continue
		}

		values := query[key]
		if len(values) == 0 {
			continue
		}

		value := values[len(values)-1]
		if strings.ContainsRune(value, 0) {
			value = ""
		}

		env.set(queryPrefix+key, value)
	}
}

// envValue returns value if it only holds visible ASCII, spaces and tabs and
// an empty string otherwise
func envValue(value string) string {
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\t' && (c < ' ' || c > '~') {
			return ""
		}
	}

	return value
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
