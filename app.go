package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	ghandlers "github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	labmetrics "gitlab.com/gitlab-org/labkit/metrics"
	"golang.org/x/sync/errgroup"

	"gitlab.com/gitlab-org/pages-cgi/internal/config"
	"gitlab.com/gitlab-org/pages-cgi/internal/customheaders"
	"gitlab.com/gitlab-org/pages-cgi/internal/errortracking"
	"gitlab.com/gitlab-org/pages-cgi/internal/handlers"
	"gitlab.com/gitlab-org/pages-cgi/internal/healthcheck"
	"gitlab.com/gitlab-org/pages-cgi/internal/logging"
	"gitlab.com/gitlab-org/pages-cgi/internal/netutil"
	"gitlab.com/gitlab-org/pages-cgi/internal/ratelimiter"
	"gitlab.com/gitlab-org/pages-cgi/internal/routing"
	"gitlab.com/gitlab-org/pages-cgi/internal/serving/disk"
	"gitlab.com/gitlab-org/pages-cgi/internal/serving/fileresolver"
	"gitlab.com/gitlab-org/pages-cgi/internal/serving/script"
	"gitlab.com/gitlab-org/pages-cgi/internal/urilimiter"
	"gitlab.com/gitlab-org/pages-cgi/internal/vfs"
	"gitlab.com/gitlab-org/pages-cgi/internal/vfs/local"
	"gitlab.com/gitlab-org/pages-cgi/metrics"
)

// the factory registers its collectors with the default registry, so it is created once
var metricsMiddleware = labmetrics.NewHandlerFactory(labmetrics.WithNamespace("pages_cgi"))

type theApp struct {
	config        *config.Config
	root          vfs.Root
	customHeaders http.Header
	dispatcher    *routing.Dispatcher
}

func newApp(ctx context.Context, cfg *config.Config) (*theApp, error) {
	fs := vfs.Instrumented(&local.VFS{})

	root, err := fs.Root(ctx, cfg.General.RootDir)
	if err != nil {
		return nil, err
	}

	customHeaders, err := customheaders.ParseHeaderString(cfg.General.CustomHeaders)
	if err != nil {
		return nil, fmt.Errorf("unable to parse header string: %w", err)
	}

	requestLogger, err := logging.NewRequestLogger(cfg.Log.Format, os.Stdout)
	if err != nil {
		return nil, err
	}

	executor := script.New(script.Config{
		Timeout:            cfg.Scripts.Timeout,
		MaxRequestBodySize: cfg.Limits.MaxRequestBodySize,
		MaxOutputSize:      cfg.Limits.MaxScriptOutputSize,
		InheritEnv:         cfg.Scripts.InheritEnv,
	})

	dispatcher := routing.NewDispatcher(
		fileresolver.New(root, cfg.Scripts.Dir, cfg.General.DenyPaths),
		disk.New(root),
		executor,
		requestLogger,
	)

	return &theApp{
		config:        cfg,
		root:          root,
		customHeaders: customHeaders,
		dispatcher:    dispatcher,
	}, nil
}

// buildHandlerPipeline wraps the dispatcher with every middleware, innermost first
func (a *theApp) buildHandlerPipeline() http.Handler {
	var handler http.Handler = a.dispatcher

	handler = handlers.CorsHandler(a.config, handler)
	handler = healthcheck.NewMiddleware(handler, a.config.General.StatusPath)
	handler = urilimiter.NewMiddleware(handler, a.config.Limits.MaxURILength)

	if a.config.RateLimit.SourceIPLimitPerSecond > 0 {
		rl := ratelimiter.New(
			ratelimiter.WithSourceIPLimitPerSecond(a.config.RateLimit.SourceIPLimitPerSecond),
			ratelimiter.WithSourceIPBurstSize(a.config.RateLimit.SourceIPBurst),
		)

		handler = rl.SourceIPLimiter(handler)
	}

	if a.config.General.ProxyHeaders {
		handler = ghandlers.ProxyHeaders(handler)
	}

	handler = customheaders.NewMiddleware(handler, a.customHeaders)
	handler = customheaders.CloseConnection(handler)
	handler = metricsMiddleware(handler)
	handler = errortracking.NewHandler(handler)
	handler = correlation.InjectCorrelationID(handler, correlation.WithSetResponseHeader())

	return handler
}

// Run serves until ctx is done and all in-flight requests have been
// answered or the shutdown timeout expired
func (a *theApp) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", a.config.ListenAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.ListenAddr(), err)
	}

	log.Printf("Server listening on %s", a.config.ListenAddr())

	var metricsListener net.Listener
	if a.config.General.MetricsAddress != "" {
		metricsListener, err = net.Listen("tcp", a.config.General.MetricsAddress)
		if err != nil {
			l.Close()
			return fmt.Errorf("failed to listen on metrics address %s: %w", a.config.General.MetricsAddress, err)
		}

		log.WithField("listener", a.config.General.MetricsAddress).Debug("Set up metrics listener")
	}

	return a.serve(ctx, l, metricsListener)
}

func (a *theApp) serve(ctx context.Context, l, metricsListener net.Listener) error {
	var limiter *netutil.Limiter
	if a.config.Limits.MaxConns > 0 {
		limiter = netutil.NewLimiter(a.config.Limits.MaxConns, netutil.LimiterMetrics{
			MaxConns:        metrics.LimitListenerMaxConns,
			ConcurrentConns: metrics.LimitListenerConcurrentConns,
			WaitingConns:    metrics.LimitListenerWaitingConns,
		})
	}

	servers := []*http.Server{a.newServer(a.buildHandlerPipeline())}
	listeners := []net.Listener{a.wrapListener(l, limiter)}

	if metricsListener != nil {
		servers = append(servers, a.newServer(promhttp.Handler()))
		listeners = append(listeners, metricsListener)
	}

	g, ctx := errgroup.WithContext(ctx)

	for i := range servers {
		server, listener := servers[i], listeners[i]

		g.Go(func() error {
			if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()

		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()

		var shutdownErr error
		for _, server := range servers {
			if err := server.Shutdown(shutdownCtx); err != nil && shutdownErr == nil {
				shutdownErr = fmt.Errorf("graceful shutdown: %w", err)
			}
		}

		return shutdownErr
	})

	return g.Wait()
}
