package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"gitlab.com/gitlab-org/pages-cgi/metrics"
)

// waitDelay bounds how long output is drained after the script was killed
const waitDelay = 5 * time.Second

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeError   = "error"
)

// Config bounds the resources a single script run may consume
type Config struct {
	// Timeout is the maximum wall clock time of a run, 0 disables it
	Timeout time.Duration
	// MaxRequestBodySize is the maximum size of a POST body, 0 disables it
	MaxRequestBodySize int64
	// MaxOutputSize caps stdout and stderr each, 0 disables it
	MaxOutputSize int64
	// InheritEnv passes the server's own environment on to scripts
	InheritEnv bool
}

// Result is the outcome of a script that ran to completion
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the script exited with status 0
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Status is the HTTP status the result maps to
func (r *Result) Status() int {
	if r.Success() {
		return http.StatusOK
	}

	return http.StatusInternalServerError
}

// Body is stdout for a successful script and stderr otherwise
func (r *Result) Body() []byte {
	if r.Success() {
		return r.Stdout
	}

	return r.Stderr
}

// Executor runs one script process per request
type Executor struct {
	config     Config
	inherited  []string
	executions *prometheus.CounterVec
	duration   prometheus.Histogram
}

// New returns an Executor. The server environment is captured once here.
func New(config Config) *Executor {
	var inherited []string
	if config.InheritEnv {
		inherited = os.Environ()
	}

	return &Executor{
		config:     config,
		inherited:  inherited,
		executions: metrics.ScriptExecutions,
		duration:   metrics.ScriptExecutionDuration,
	}
}

// Run executes the script at path for r. A non-zero exit is reported in the
// Result; an error means the script could not be run to completion.
func (e *Executor) Run(r *http.Request, path string) (*Result, error) {
	var stdin []byte
	if r.Method == http.MethodPost {
		body, err := e.readBody(r)
		if err != nil {
			return nil, err
		}
		stdin = body
	}

	ctx := r.Context()
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := e.run(ctx, r, path, stdin)
	e.duration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		e.executions.WithLabelValues(outcomeError).Inc()
	case result.Success():
		e.executions.WithLabelValues(outcomeSuccess).Inc()
	default:
		e.executions.WithLabelValues(outcomeFailure).Inc()
	}

	return result, err
}

func (e *Executor) readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	reader := io.Reader(r.Body)
	if e.config.MaxRequestBodySize > 0 {
		if r.ContentLength > e.config.MaxRequestBodySize {
			return nil, ErrBodyTooLarge
		}

		reader = io.LimitReader(r.Body, e.config.MaxRequestBodySize+1)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}

	if e.config.MaxRequestBodySize > 0 && int64(len(body)) > e.config.MaxRequestBodySize {
		return nil, ErrBodyTooLarge
	}

	return body, nil
}

func (e *Executor) run(ctx context.Context, r *http.Request, path string, stdin []byte) (*Result, error) {
	cmd := exec.CommandContext(ctx, path)
	cmd.Dir = filepath.Dir(path)
	cmd.Env = BuildEnv(r, e.inherited)
	cmd.WaitDelay = waitDelay

	stdout := newLimitedBuffer(e.config.MaxOutputSize)
	stderr := newLimitedBuffer(e.config.MaxOutputSize)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	var stdinPipe io.WriteCloser
	if r.Method == http.MethodPost {
		var err error
		if stdinPipe, err = cmd.StdinPipe(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStart, err)
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrStart, path, err)
	}

	log.WithField("script", path).
		WithField("pid", cmd.Process.Pid).
		WithField("stdin_bytes", len(stdin)).
		Traceln("script started")

	var waitErr error
	var g errgroup.Group

	if stdinPipe != nil {
		g.Go(func() error {
			return writeStdin(stdinPipe, stdin)
		})
	}

	g.Go(func() error {
		waitErr = cmd.Wait()
		return nil
	})

	stdinErr := g.Wait()

	exitCode, err := e.exitStatus(ctx, path, waitErr)
	if err != nil {
		return nil, err
	}

	if stdinErr != nil {
		return nil, stdinErr
	}

	if stdout.Overflowed() || stderr.Overflowed() {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrOutputTooLarge, e.config.MaxOutputSize)
	}

	return &Result{
		ExitCode: exitCode,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}

// exitStatus maps the result of Wait to the script's exit code. The context
// only matters when Wait failed: a script that exited on its own right before
// the deadline still succeeded.
func (e *Executor) exitStatus(ctx context.Context, path string, waitErr error) (int, error) {
	if waitErr == nil {
		return 0, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w after %s", ErrTimeout, e.config.Timeout)
		}

		return 0, fmt.Errorf("script %q: %w", path, ctxErr)
	}

	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return 0, fmt.Errorf("%w: %v", ErrWait, waitErr)
	}

	return exitErr.ExitCode(), nil
}

// writeStdin passes the whole body to the script and closes its input. A
// script that exits without reading its input is not an error.
func writeStdin(w io.WriteCloser, body []byte) error {
	_, err := w.Write(body)
	closeErr := w.Close()

	if err == nil {
		err = closeErr
	}

	if err == nil || isClosedPipe(err) {
		return nil
	}

	return fmt.Errorf("%w: %v", ErrStdin, err)
}

func isClosedPipe(err error) bool {
	return errors.Is(err, unix.EPIPE) || errors.Is(err, os.ErrClosed)
}
