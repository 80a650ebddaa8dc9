package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"gitlab.com/gitlab-org/pages-cgi/internal/vfs"
)

// InvalidPathError is returned for a name that leaves the root, either as
// written or once its symlinks are evaluated
type InvalidPathError struct {
	Root string
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%q is outside of %q", e.Path, e.Root)
}

// Root is a canonical directory on the local filesystem
type Root struct {
	path string
}

// Path returns the canonical root directory
func (r *Root) Path() string {
	return r.path
}

// contain returns the slash separated name of fullPath relative to the
// root, "." for the root itself
func (r *Root) contain(fullPath string) (string, error) {
	if fullPath == r.path {
		return ".", nil
	}

	name, found := strings.CutPrefix(fullPath, r.path+string(filepath.Separator))
	if !found {
		return "", &InvalidPathError{Root: r.path, Path: fullPath}
	}

	return filepath.ToSlash(name), nil
}

// join places name below the root. A leading slash does not make name
// absolute. The lexical result must stay inside the root.
func (r *Root) join(name string) (string, error) {
	fullPath := filepath.Join(r.path, filepath.FromSlash(name))

	if _, err := r.contain(fullPath); err != nil {
		return "", err
	}

	return fullPath, nil
}

// Lstat returns the FileInfo of name without following a final symlink
func (r *Root) Lstat(ctx context.Context, name string) (os.FileInfo, error) {
	fullPath, err := r.join(name)
	if err != nil {
		return nil, err
	}

	return os.Lstat(fullPath)
}

// EvalSymlinks resolves every symlink in name and returns the physical
// location relative to the root
func (r *Root) EvalSymlinks(ctx context.Context, name string) (string, error) {
	fullPath, err := r.join(name)
	if err != nil {
		return "", err
	}

	physical, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return "", err
	}

	return r.contain(physical)
}

// Open opens name for reading. A final symlink fails with ELOOP.
func (r *Root) Open(ctx context.Context, name string) (vfs.File, error) {
	fullPath, err := r.join(name)
	if err != nil {
		return nil, err
	}

	return os.OpenFile(fullPath, os.O_RDONLY|unix.O_NOFOLLOW, 0)
}
