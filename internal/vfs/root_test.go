package vfs_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/pages-cgi/internal/vfs"
	"gitlab.com/gitlab-org/pages-cgi/internal/vfs/local"
	"gitlab.com/gitlab-org/pages-cgi/metrics"
)

func TestInstrumentedRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("hello"), 0644))

	ctx := context.Background()
	root, err := vfs.Instrumented(&local.VFS{}).Root(ctx, dir)
	require.NoError(t, err)

	okOpen := metrics.VFSOperations.WithLabelValues("local", "Open", "true")
	failedLstat := metrics.VFSOperations.WithLabelValues("local", "Lstat", "false")
	okEval := metrics.VFSOperations.WithLabelValues("local", "EvalSymlinks", "true")

	openBefore := testutil.ToFloat64(okOpen)
	lstatBefore := testutil.ToFloat64(failedLstat)
	evalBefore := testutil.ToFloat64(okEval)

	f, err := root.Open(ctx, "index.html")
	require.NoError(t, err)
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.Equal(t, "hello", string(content))

	_, err = root.Lstat(ctx, "missing")
	require.True(t, errors.Is(err, os.ErrNotExist))

	name, err := root.EvalSymlinks(ctx, "index.html")
	require.NoError(t, err)
	require.Equal(t, "index.html", name)

	require.Equal(t, openBefore+1, testutil.ToFloat64(okOpen))
	require.Equal(t, lstatBefore+1, testutil.ToFloat64(failedLstat))
	require.Equal(t, evalBefore+1, testutil.ToFloat64(okEval))
}

func TestReadError(t *testing.T) {
	cause := errors.New("input/output error")
	err := vfs.NewReadError("index.html", cause)

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, &vfs.ReadError{})
	require.EqualError(t, err, `read "index.html": input/output error`)
}
