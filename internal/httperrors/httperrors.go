package httperrors

import (
	"fmt"
	"html"
	"net/http"

	"gitlab.com/gitlab-org/pages-cgi/internal/errortracking"
	"gitlab.com/gitlab-org/pages-cgi/internal/logging"
)

// ScriptFailureBody is the response body when a script could not be run to completion
const ScriptFailureBody = "Failed to execute script"

type content struct {
	status    int
	title     string
	header    string
	subHeader string
}

var (
	content403 = content{
		http.StatusForbidden,
		"Forbidden (403)",
		"403 Forbidden",
		"You don't have permission to access this resource.",
	}
	content404 = content{
		http.StatusNotFound,
		"Not Found (404)",
		"404 Not Found",
		"The page you're looking for could not be found.",
	}
	content414 = content{
		http.StatusRequestURITooLong,
		"Request URI Too Long (414)",
		"414 Request URI Too Long",
		"The URI provided was too long for the server to process.",
	}
	content429 = content{
		http.StatusTooManyRequests,
		"Too Many Requests (429)",
		"429 Too Many Requests",
		"The resource that you are attempting to access is being rate limited.",
	}
)

const predefinedErrorPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s</title>
</head>
<body>
  <h1>%s</h1>
  <p>%s</p>
</body>
</html>`

func generateErrorHTML(c content) string {
	return fmt.Sprintf(predefinedErrorPage, html.EscapeString(c.title), html.EscapeString(c.header), html.EscapeString(c.subHeader))
}

func serveErrorPage(w http.ResponseWriter, c content) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(c.status)
	fmt.Fprintln(w, generateErrorHTML(c))
}

func servePlainText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

// Serve403 returns a 403 error response / HTML page to the http.ResponseWriter
func Serve403(w http.ResponseWriter) {
	serveErrorPage(w, content403)
}

// Serve404 returns a 404 error response / HTML page to the http.ResponseWriter
func Serve404(w http.ResponseWriter) {
	serveErrorPage(w, content404)
}

// Serve414 returns a 414 error response / HTML page to the http.ResponseWriter
func Serve414(w http.ResponseWriter) {
	serveErrorPage(w, content414)
}

// Serve429 returns a 429 error response / HTML page to the http.ResponseWriter
func Serve429(w http.ResponseWriter) {
	serveErrorPage(w, content429)
}

// Serve405 returns a plain text 405 error response
func Serve405(w http.ResponseWriter) {
	servePlainText(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
}

// Serve413 returns a plain text 413 error response
func Serve413(w http.ResponseWriter) {
	servePlainText(w, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
}

// Serve500 returns a plain text 500 error response
func Serve500(w http.ResponseWriter) {
	servePlainText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// Serve500WithRequest logs and reports err before returning a plain text 500 error response
func Serve500WithRequest(w http.ResponseWriter, r *http.Request, reason string, err error) {
	logging.LogRequest(r).WithError(err).Error(reason)
	errortracking.CaptureErrWithReqAndStackTrace(err, r)
	Serve500(w)
}

// ServeScriptFailure returns a 500 with the generic script failure body
func ServeScriptFailure(w http.ResponseWriter) {
	servePlainText(w, http.StatusInternalServerError, ScriptFailureBody)
}

// ServeScriptError logs and reports a script that could not be executed and
// returns a 500 with the generic script failure body
func ServeScriptError(w http.ResponseWriter, r *http.Request, script string, err error) {
	logging.LogRequest(r).WithError(err).WithField("script", script).Error("failed to execute script")
	errortracking.CaptureErrWithReqAndStackTrace(err, r, errortracking.WithField("script", script))
	ServeScriptFailure(w)
}
