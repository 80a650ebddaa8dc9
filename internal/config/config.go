package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/namsral/flag"
	log "github.com/sirupsen/logrus"
)

const defaultDenyPath = "/forbidden"

var (
	// ErrUsage is returned when the positional arguments are not exactly <PORT> <ROOT_FOLDER>
	ErrUsage = errors.New("expected exactly two arguments: <PORT> <ROOT_FOLDER>")
	// ErrInvalidPort is returned when <PORT> is not a valid 16-bit port number
	ErrInvalidPort = errors.New("invalid port number")
)

// Config stores all the config options relevant to pages-cgi.
type Config struct {
	General   General
	Scripts   Scripts
	Limits    Limits
	RateLimit RateLimit
	Log       Log
	Sentry    Sentry
	Server    Server
}

// General groups settings that are general to pages-cgi and can not
// be categorized under other head.
type General struct {
	Port           uint16
	RootDir        string
	MetricsAddress string
	StatusPath     string
	DenyPaths      []string
	CustomHeaders  []string

	DisableCrossOriginRequests bool
	ProxyHeaders               bool
	ProxyProtocol              bool

	ShowVersion bool
}

// Scripts groups settings related to executing scripts below the root folder
type Scripts struct {
	Dir        string
	Timeout    time.Duration
	InheritEnv bool
}

// Limits groups settings bounding the resources a single request may consume
type Limits struct {
	MaxConns            int
	MaxURILength        int
	MaxRequestBodySize  int64
	MaxScriptOutputSize int64
}

// RateLimit config struct
type RateLimit struct {
	SourceIPLimitPerSecond float64
	SourceIPBurst          int
}

// Log groups settings related to configuring logging
type Log struct {
	Format  string
	Verbose bool
}

// Sentry groups settings related to configuring Sentry
type Sentry struct {
	DSN         string
	Environment string
}

// Server groups settings related to configuring the HTTP server
type Server struct {
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// ListenAddr returns the address binding all interfaces on the configured port
func (c *Config) ListenAddr() string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(int(c.General.Port)))
}

func parsePort(s string) (uint16, error) {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidPort, s, err)
	}

	return uint16(port), nil
}

func loadConfig(args []string) (*Config, error) {
	config := &Config{
		General: General{
			MetricsAddress:             *metricsAddress,
			StatusPath:                 *statusPath,
			DenyPaths:                  denyPaths.Split(),
			CustomHeaders:              header.Split(),
			DisableCrossOriginRequests: *disableCrossOriginRequests,
			ProxyHeaders:               *proxyHeaders,
			ProxyProtocol:              *proxyProtocol,
			ShowVersion:                *showVersion,
		},
		Scripts: Scripts{
			Dir:        *scriptsDir,
			Timeout:    *scriptTimeout,
			InheritEnv: *scriptInheritEnv,
		},
		Limits: Limits{
			MaxConns:            *maxConns,
			MaxURILength:        *maxURILength,
			MaxRequestBodySize:  *maxRequestBodySize,
			MaxScriptOutputSize: *maxScriptOutputSize,
		},
		RateLimit: RateLimit{
			SourceIPLimitPerSecond: *rateLimitSourceIP,
			SourceIPBurst:          *rateLimitSourceIPBurst,
		},
		Log: Log{
			Format:  *logFormat,
			Verbose: *logVerbose,
		},
		Sentry: Sentry{
			DSN:         *sentryDSN,
			Environment: *sentryEnvironment,
		},
		Server: Server{
			ReadHeaderTimeout: *serverReadHeaderTimeout,
			ShutdownTimeout:   *serverShutdownTimeout,
		},
	}

	if len(config.General.DenyPaths) == 0 {
		config.General.DenyPaths = []string{defaultDenyPath}
	}

	// -version short-circuits argument checks in appMain
	if config.General.ShowVersion {
		return config, nil
	}

	if len(args) != 2 {
		return nil, ErrUsage
	}

	var err error
	if config.General.Port, err = parsePort(args[0]); err != nil {
		return nil, err
	}

	config.General.RootDir = args[1]

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LogConfig dumps the effective configuration at debug level
func LogConfig(config *Config) {
	log.WithFields(log.Fields{
		"port":                          config.General.Port,
		"root-folder":                   config.General.RootDir,
		"default-config-filename":       flag.DefaultConfigFlagname,
		"disable-cross-origin-requests": config.General.DisableCrossOriginRequests,
		"deny-path":                     config.General.DenyPaths,
		"log-format":                    config.Log.Format,
		"metrics-address":               config.General.MetricsAddress,
		"status-path":                   config.General.StatusPath,
		"proxy-headers":                 config.General.ProxyHeaders,
		"proxy-protocol":                config.General.ProxyProtocol,
		"scripts-dir":                   config.Scripts.Dir,
		"script-timeout":                config.Scripts.Timeout,
		"script-inherit-env":            config.Scripts.InheritEnv,
		"max-conns":                     config.Limits.MaxConns,
		"max-uri-length":                config.Limits.MaxURILength,
		"max-request-body-size":         config.Limits.MaxRequestBodySize,
		"max-script-output-size":        config.Limits.MaxScriptOutputSize,
		"rate-limit-source-ip":          config.RateLimit.SourceIPLimitPerSecond,
		"rate-limit-source-ip-burst":    config.RateLimit.SourceIPBurst,
		"server-read-header-timeout":    config.Server.ReadHeaderTimeout,
		"server-shutdown-timeout":       config.Server.ShutdownTimeout,
	}).Debug("Start daemon with configuration")
}

// LoadConfig parses configuration settings passed as command line arguments or
// via config file, and populates a Config object with those values
func LoadConfig() (*Config, error) {
	initFlags()

	return loadConfig(flag.Args())
}

// Usage prints the command line usage to stderr
func Usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <PORT> <ROOT_FOLDER>\n\nFlags:\n", os.Args[0])
	flag.PrintDefaults()
}
