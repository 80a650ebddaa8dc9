package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"gitlab.com/gitlab-org/pages-cgi/internal/customheaders"
)

var (
	ErrInvalidLogFormat       = errors.New("log-format must be either 'text' or 'json'")
	ErrInvalidStatusPath      = errors.New("status-path must start with '/'")
	ErrInvalidDenyPath        = errors.New("deny-path must start with '/'")
	ErrInvalidScriptsDir      = errors.New("scripts-dir must be a relative path inside the root folder")
	ErrNegativeScriptTimeout  = errors.New("script-timeout must be greater than or equal to 0")
	ErrNegativeBodySize       = errors.New("max-request-body-size must be greater than or equal to 0")
	ErrNegativeOutputSize     = errors.New("max-script-output-size must be greater than or equal to 0")
	ErrNegativeMaxConns       = errors.New("max-conns must be greater than or equal to 0")
	ErrNegativeMaxURILength   = errors.New("max-uri-length must be greater than or equal to 0")
	ErrInvalidRateLimit       = errors.New("rate-limit-source-ip must be greater than or equal to 0")
	ErrInvalidRateLimitBurst  = errors.New("rate-limit-source-ip-burst must be greater than 0 when rate limiting is enabled")
	ErrInvalidCustomHeader    = errors.New("invalid custom header")
	ErrNegativeShutdownPeriod = errors.New("server-shutdown-timeout must be greater than or equal to 0")
)

// Validate checks every setting and reports all problems at once
func Validate(config *Config) error {
	var result *multierror.Error

	for _, validate := range []func(*Config) error{
		validateLogConfig,
		validatePathsConfig,
		validateScriptsConfig,
		validateLimitsConfig,
		validateRateLimitConfig,
		validateHeadersConfig,
	} {
		if err := validate(config); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func validateLogConfig(config *Config) error {
	switch config.Log.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Log.Format)
	}
}

func validatePathsConfig(config *Config) error {
	var result *multierror.Error

	if config.General.StatusPath != "" && !strings.HasPrefix(config.General.StatusPath, "/") {
		result = multierror.Append(result, ErrInvalidStatusPath)
	}

	for _, p := range config.General.DenyPaths {
		if !strings.HasPrefix(p, "/") {
			result = multierror.Append(result, fmt.Errorf("%w: %q", ErrInvalidDenyPath, p))
		}
	}

	return result.ErrorOrNil()
}

func validateScriptsConfig(config *Config) error {
	var result *multierror.Error

	dir := config.Scripts.Dir
	if dir == "" || filepath.IsAbs(dir) || filepath.Clean(dir) == "." ||
		filepath.Clean(dir) == ".." || strings.HasPrefix(filepath.Clean(dir), "../") {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrInvalidScriptsDir, dir))
	}

	if config.Scripts.Timeout < 0 {
		result = multierror.Append(result, ErrNegativeScriptTimeout)
	}

	return result.ErrorOrNil()
}

func validateLimitsConfig(config *Config) error {
	var result *multierror.Error

	if config.Limits.MaxRequestBodySize < 0 {
		result = multierror.Append(result, ErrNegativeBodySize)
	}
	if config.Limits.MaxScriptOutputSize < 0 {
		result = multierror.Append(result, ErrNegativeOutputSize)
	}
	if config.Limits.MaxConns < 0 {
		result = multierror.Append(result, ErrNegativeMaxConns)
	}
	if config.Limits.MaxURILength < 0 {
		result = multierror.Append(result, ErrNegativeMaxURILength)
	}
	if config.Server.ShutdownTimeout < 0 {
		result = multierror.Append(result, ErrNegativeShutdownPeriod)
	}

	return result.ErrorOrNil()
}

func validateRateLimitConfig(config *Config) error {
	if config.RateLimit.SourceIPLimitPerSecond < 0 {
		return ErrInvalidRateLimit
	}

	if config.RateLimit.SourceIPLimitPerSecond > 0 && config.RateLimit.SourceIPBurst <= 0 {
		return ErrInvalidRateLimitBurst
	}

	return nil
}

func validateHeadersConfig(config *Config) error {
	if _, err := customheaders.ParseHeaderString(config.General.CustomHeaders); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCustomHeader, err)
	}

	return nil
}
