package config

import (
	"time"

	"github.com/namsral/flag"
)

var (
	metricsAddress    = flag.String("metrics-address", "", "The address to listen on for metrics requests")
	sentryDSN         = flag.String("sentry-dsn", "", "The address for sending sentry crash reporting to")
	sentryEnvironment = flag.String("sentry-environment", "", "The environment for sentry crash reporting")
	logFormat         = flag.String("log-format", "text", "The log output format: 'text' or 'json'")
	logVerbose        = flag.Bool("log-verbose", false, "Verbose logging")
	statusPath        = flag.String("status-path", "", "The url path for a status page, e.g., /@status")

	scriptsDir          = flag.String("scripts-dir", "scripts", "The directory, relative to the root folder, whose files are executed as scripts")
	scriptTimeout       = flag.Duration("script-timeout", 60*time.Second, "The maximum time a script may run before it is killed, 0 means no timeout")
	scriptInheritEnv    = flag.Bool("script-inherit-env", true, "Pass the server's own environment variables on to scripts")
	maxRequestBodySize  = flag.Int64("max-request-body-size", 32<<20, "The maximum size in bytes of a request body passed to a script, 0 for unlimited")
	maxScriptOutputSize = flag.Int64("max-script-output-size", 32<<20, "The maximum size in bytes of a script's stdout or stderr, 0 for unlimited")

	maxConns     = flag.Int("max-conns", 0, "Limit on the number of concurrent connections to the HTTP listener, 0 for no limit")
	maxURILength = flag.Int("max-uri-length", 1024, "Limit the length of URI, 0 for unlimited.")

	// HTTP rate limits
	rateLimitSourceIP      = flag.Float64("rate-limit-source-ip", 0.0, "Rate limit HTTP requests per second from a single IP, 0 means is disabled")
	rateLimitSourceIPBurst = flag.Int("rate-limit-source-ip-burst", 100, "Rate limit HTTP requests from a single IP, maximum burst allowed per second")

	disableCrossOriginRequests = flag.Bool("disable-cross-origin-requests", false, "Disable cross-origin requests")
	proxyHeaders               = flag.Bool("proxy-headers", false, "Trust X-Forwarded-For and X-Real-IP headers for the client IP address")
	proxyProtocol              = flag.Bool("proxy-protocol", false, "Require the PROXY protocol header (v1 or v2) on every connection (https://www.haproxy.org/download/1.8/doc/proxy-protocol.txt)")

	// HTTP server timeouts
	serverReadHeaderTimeout = flag.Duration("server-read-header-timeout", 5*time.Second, "ReadHeaderTimeout is the amount of time allowed to read request headers. A zero or negative value means there will be no timeout.")
	serverShutdownTimeout   = flag.Duration("server-shutdown-timeout", 30*time.Second, "Server shutdown timeout (default: 30s)")

	showVersion = flag.Bool("version", false, "Show version")

	// See initFlags()
	denyPaths = MultiStringFlag{separator: ","}
	header    = MultiStringFlag{separator: ";;"}
)

// initFlags will be called from LoadConfig
func initFlags() {
	flag.Var(&denyPaths, "deny-path", "The url path(s) that always respond with 403 Forbidden (default: /forbidden)")
	flag.Var(&header, "header", "The additional http header(s) that should be send to the client")

	// read from -config=/path/to/pages-cgi-config
	flag.String(flag.DefaultConfigFlagname, "", "path to config file")

	flag.Usage = Usage
	flag.Parse()
}
