package routing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/pages-cgi/internal/httperrors"
	"gitlab.com/gitlab-org/pages-cgi/internal/routing/mock"
	"gitlab.com/gitlab-org/pages-cgi/internal/serving/fileresolver"
	"gitlab.com/gitlab-org/pages-cgi/internal/serving/script"
	"gitlab.com/gitlab-org/pages-cgi/internal/vfs"
)

type mocks struct {
	resolver *mock.MockResolver
	static   *mock.MockStaticResponder
	scripts  *mock.MockScriptRunner
	logger   *mock.MockRequestLogger
}

func newDispatcher(t *testing.T) (*Dispatcher, mocks) {
	t.Helper()

	mockCtrl := gomock.NewController(t)

	m := mocks{
		resolver: mock.NewMockResolver(mockCtrl),
		static:   mock.NewMockStaticResponder(mockCtrl),
		scripts:  mock.NewMockScriptRunner(mockCtrl),
		logger:   mock.NewMockRequestLogger(mockCtrl),
	}

	d := NewDispatcher(m.resolver, m.static, m.scripts, m.logger)

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time {
		clock = clock.Add(5 * time.Millisecond)
		return clock
	}

	return d, m
}

func staticTarget(name string) fileresolver.Target {
	return fileresolver.Target{Kind: fileresolver.Static, Path: "/srv/" + name, Name: name}
}

func scriptTarget(name string) fileresolver.Target {
	return fileresolver.Target{Kind: fileresolver.Script, Path: "/srv/" + name, Name: name}
}

func TestDispatcherStatic(t *testing.T) {
	d, m := newDispatcher(t)

	r := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	w := httptest.NewRecorder()

	m.resolver.EXPECT().Resolve(gomock.Any(), "/index.html").Return(staticTarget("index.html"), nil)
	m.static.EXPECT().ServeFile(w, r, "index.html").DoAndReturn(func(w http.ResponseWriter, _ *http.Request, _ string) error {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "<h1>hi</h1>")
		return nil
	})
	m.logger.EXPECT().Log(r, http.StatusOK, 5*time.Millisecond)

	d.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "<h1>hi</h1>", w.Body.String())
}

func TestDispatcherStaticReadFailure(t *testing.T) {
	d, m := newDispatcher(t)

	r := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	w := httptest.NewRecorder()

	m.resolver.EXPECT().Resolve(gomock.Any(), "/index.html").Return(staticTarget("index.html"), nil)
	m.static.EXPECT().ServeFile(w, r, "index.html").Return(errors.New("disk on fire"))
	m.logger.EXPECT().Log(r, http.StatusInternalServerError, gomock.Any())

	d.ServeHTTP(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "disk on fire")
}

func TestDispatcherStaticOpenFailures(t *testing.T) {
	tests := map[string]struct {
		err            error
		expectedStatus int
	}{
		"permission_denied": {
			err:            &fs.PathError{Op: "open", Path: "/srv/private.txt", Err: syscall.EACCES},
			expectedStatus: http.StatusForbidden,
		},
		"symlink_swapped_in": {
			err:            &fs.PathError{Op: "open", Path: "/srv/private.txt", Err: syscall.ELOOP},
			expectedStatus: http.StatusForbidden,
		},
		"removed_after_resolve": {
			err:            &fs.PathError{Op: "open", Path: "/srv/private.txt", Err: syscall.ENOENT},
			expectedStatus: http.StatusNotFound,
		},
		"read_error": {
			err:            vfs.NewReadError("private.txt", syscall.EIO),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d, m := newDispatcher(t)

			r := httptest.NewRequest(http.MethodGet, "/private.txt", nil)
			w := httptest.NewRecorder()

			m.resolver.EXPECT().Resolve(gomock.Any(), "/private.txt").Return(staticTarget("private.txt"), nil)
			m.static.EXPECT().ServeFile(w, r, "private.txt").Return(tt.err)
			m.logger.EXPECT().Log(r, tt.expectedStatus, gomock.Any())

			d.ServeHTTP(w, r)

			require.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestDispatcherRejectsMethods(t *testing.T) {
	tests := map[string]struct {
		method string
		target fileresolver.Target
	}{
		"post_to_static":     {method: http.MethodPost, target: staticTarget("index.html")},
		"head_to_static":     {method: http.MethodHead, target: staticTarget("index.html")},
		"put_to_missing":     {method: http.MethodPut, target: fileresolver.Target{Kind: fileresolver.NotFound}},
		"delete_to_missing":  {method: http.MethodDelete, target: fileresolver.Target{Kind: fileresolver.NotFound}},
		"options_to_missing": {method: http.MethodOptions, target: fileresolver.Target{Kind: fileresolver.NotFound}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d, m := newDispatcher(t)

			r := httptest.NewRequest(tt.method, "/index.html", nil)
			w := httptest.NewRecorder()

			m.resolver.EXPECT().Resolve(gomock.Any(), "/index.html").Return(tt.target, nil)
			m.logger.EXPECT().Log(r, http.StatusMethodNotAllowed, gomock.Any())

			d.ServeHTTP(w, r)

			require.Equal(t, http.StatusMethodNotAllowed, w.Code)
			require.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		})
	}
}

func TestDispatcherNotFound(t *testing.T) {
	d, m := newDispatcher(t)

	r := httptest.NewRequest(http.MethodGet, "/missing.html", nil)
	w := httptest.NewRecorder()

	m.resolver.EXPECT().Resolve(gomock.Any(), "/missing.html").
		Return(fileresolver.Target{Kind: fileresolver.NotFound}, errors.New("file not found"))
	m.logger.EXPECT().Log(r, http.StatusNotFound, gomock.Any())

	d.ServeHTTP(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "404 Not Found")
}

func TestDispatcherForbiddenForAnyMethod(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			d, m := newDispatcher(t)

			r := httptest.NewRequest(method, "/.git/config", nil)
			w := httptest.NewRecorder()

			m.resolver.EXPECT().Resolve(gomock.Any(), "/.git/config").
				Return(fileresolver.Target{Kind: fileresolver.Forbidden}, errors.New("denied"))
			m.logger.EXPECT().Log(r, http.StatusForbidden, gomock.Any())

			d.ServeHTTP(w, r)

			require.Equal(t, http.StatusForbidden, w.Code)
			require.Contains(t, w.Body.String(), "403 Forbidden")
		})
	}
}

func TestDispatcherScript(t *testing.T) {
	tests := map[string]struct {
		method         string
		result         *script.Result
		expectedStatus int
		expectedBody   string
	}{
		"get_success": {
			method:         http.MethodGet,
			result:         &script.Result{ExitCode: 0, Stdout: []byte("hello\n"), Stderr: []byte("noise")},
			expectedStatus: http.StatusOK,
			expectedBody:   "hello\n",
		},
		"post_success": {
			method:         http.MethodPost,
			result:         &script.Result{ExitCode: 0, Stdout: []byte("posted")},
			expectedStatus: http.StatusOK,
			expectedBody:   "posted",
		},
		"delete_failure": {
			method:         http.MethodDelete,
			result:         &script.Result{ExitCode: 3, Stdout: []byte("partial"), Stderr: []byte("boom\n")},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "boom\n",
		},
		"empty_output": {
			method:         http.MethodPut,
			result:         &script.Result{},
			expectedStatus: http.StatusOK,
			expectedBody:   "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d, m := newDispatcher(t)

			r := httptest.NewRequest(tt.method, "/scripts/run.sh", nil)
			w := httptest.NewRecorder()

			m.resolver.EXPECT().Resolve(gomock.Any(), "/scripts/run.sh").Return(scriptTarget("scripts/run.sh"), nil)
			m.scripts.EXPECT().Run(r, "/srv/scripts/run.sh").Return(tt.result, nil)
			m.logger.EXPECT().Log(r, tt.expectedStatus, gomock.Any())

			d.ServeHTTP(w, r)

			require.Equal(t, tt.expectedStatus, w.Code)
			require.Equal(t, tt.expectedBody, w.Body.String())
			require.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
			require.Equal(t, fmt.Sprint(len(tt.expectedBody)), w.Header().Get("Content-Length"))
		})
	}
}

func TestDispatcherScriptErrors(t *testing.T) {
	tests := map[string]struct {
		err            error
		expectedStatus int
		expectedBody   string
	}{
		"body_too_large": {
			err:            script.ErrBodyTooLarge,
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedBody:   http.StatusText(http.StatusRequestEntityTooLarge),
		},
		"timeout": {
			err:            fmt.Errorf("%w after 1s", script.ErrTimeout),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   httperrors.ScriptFailureBody,
		},
		"start": {
			err:            fmt.Errorf("%w: permission denied", script.ErrStart),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   httperrors.ScriptFailureBody,
		},
		"output_too_large": {
			err:            script.ErrOutputTooLarge,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   httperrors.ScriptFailureBody,
		},
		"canceled": {
			err:            fmt.Errorf("script: %w", context.Canceled),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   httperrors.ScriptFailureBody,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d, m := newDispatcher(t)

			r := httptest.NewRequest(http.MethodPost, "/scripts/run.sh", nil)
			w := httptest.NewRecorder()

			m.resolver.EXPECT().Resolve(gomock.Any(), "/scripts/run.sh").Return(scriptTarget("scripts/run.sh"), nil)
			m.scripts.EXPECT().Run(r, "/srv/scripts/run.sh").Return(nil, tt.err)
			m.logger.EXPECT().Log(r, tt.expectedStatus, gomock.Any())

			d.ServeHTTP(w, r)

			require.Equal(t, tt.expectedStatus, w.Code)
			require.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}
