package testhelpers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/pages-cgi/internal/vfs"
	"gitlab.com/gitlab-org/pages-cgi/internal/vfs/local"
)

var fs = vfs.Instrumented(&local.VFS{})

// TmpDir returns a canonical temporary directory and a VFS root opened on it
func TmpDir(tb testing.TB) (vfs.Root, string) {
	tb.Helper()

	var err error
	tmpDir := tb.TempDir()

	// On some systems `/tmp` can be a symlink
	tmpDir, err = filepath.EvalSymlinks(tmpDir)
	require.NoError(tb, err)

	root, err := fs.Root(context.Background(), tmpDir)
	require.NoError(tb, err)

	return root, tmpDir
}

// Site builds a served directory tree below a temporary root
type Site struct {
	tb   testing.TB
	Root vfs.Root
	Dir  string
}

// NewSite creates an empty site with a scripts directory
func NewSite(tb testing.TB) *Site {
	tb.Helper()

	root, dir := TmpDir(tb)
	require.NoError(tb, os.Mkdir(filepath.Join(dir, "scripts"), 0755))

	return &Site{tb: tb, Root: root, Dir: dir}
}

// Path returns the absolute location of the slash separated name
func (s *Site) Path(name string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(name))
}

// WriteFile creates a regular file and its parent directories
func (s *Site) WriteFile(name, content string) string {
	s.tb.Helper()

	return s.write(name, content, 0644)
}

// WriteScript creates an executable /bin/sh script with the given body
func (s *Site) WriteScript(name, body string) string {
	s.tb.Helper()

	return s.write(name, "#!/bin/sh\n"+body+"\n", 0755)
}

// Mkdir creates a directory and its parents
func (s *Site) Mkdir(name string) string {
	s.tb.Helper()

	path := s.Path(name)
	require.NoError(s.tb, os.MkdirAll(path, 0755))

	return path
}

// Symlink creates name pointing at target, which is used verbatim
func (s *Site) Symlink(target, name string) string {
	s.tb.Helper()

	path := s.Path(name)
	require.NoError(s.tb, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(s.tb, os.Symlink(target, path))

	return path
}

func (s *Site) write(name, content string, perm os.FileMode) string {
	path := s.Path(name)
	require.NoError(s.tb, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(s.tb, os.WriteFile(path, []byte(content), perm))
	// WriteFile does not apply perm to an already existing file
	require.NoError(s.tb, os.Chmod(path, perm))

	return path
}
