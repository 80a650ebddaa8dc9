package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/pages-cgi/internal/config"
	"gitlab.com/gitlab-org/pages-cgi/internal/errortracking"
	"gitlab.com/gitlab-org/pages-cgi/internal/logging"
	"gitlab.com/gitlab-org/pages-cgi/metrics"
)

// VERSION stores the information about the semantic version of application
var VERSION = "dev"

// REVISION stores the information about the git revision of application
var REVISION = "HEAD"

func appMain() {
	cfg, err := config.LoadConfig()
	if errors.Is(err, config.ErrUsage) {
		fmt.Fprintf(os.Stderr, "%v\n\n", err)
		config.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	printVersion(cfg.General.ShowVersion, VERSION)

	if err := logging.ConfigureLogging(cfg.Log.Format, cfg.Log.Verbose); err != nil {
		log.WithError(err).Fatal("Failed to initialize logging")
	}

	log.WithFields(log.Fields{
		"version":  VERSION,
		"revision": REVISION,
	}).Print("GitLab Pages CGI")

	config.LogConfig(cfg)

	if err := errortracking.Initialize(cfg.Sentry.DSN, cfg.Sentry.Environment, fmt.Sprintf("%s-%s", VERSION, REVISION)); err != nil {
		log.WithError(err).Fatal("Failed to initialize error reporting")
	}

	if err := loadMIMETypes(); err != nil {
		log.WithError(err).Warn("Loading extended MIME database failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		fatal(err, "could not open root folder")
	}

	log.Printf("Root folder: %s", a.root.Path())

	if err := a.Run(ctx); err != nil {
		fatal(err, "server failed")
	}

	log.Info("Server stopped")
}

func fatal(err error, message string) {
	errortracking.CaptureErrWithStackTrace(err)
	log.WithError(err).Fatal(message)
}

func printVersion(showVersion bool, version string) {
	if showVersion {
		fmt.Fprintf(os.Stdout, "%s\n", version)
		os.Exit(0)
	}
}

func main() {
	log.SetOutput(os.Stderr)

	metrics.MustRegister()

	appMain()
}
