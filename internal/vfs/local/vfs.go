package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gitlab.com/gitlab-org/pages-cgi/internal/vfs"
)

var errNotDirectory = errors.New("path needs to be a directory")

// VFS opens roots on the local filesystem
type VFS struct{}

// Root canonicalizes path and returns a Root confined to it. The path must
// exist and be a directory after symlinks are evaluated.
func (localFs *VFS) Root(ctx context.Context, path string) (vfs.Root, error) {
	rootPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	rootPath, err = filepath.EvalSymlinks(rootPath)
	if err != nil {
		return nil, fmt.Errorf("could not evaluate symlinks: %w", err)
	}

	fi, err := os.Lstat(rootPath)
	if err != nil {
		return nil, err
	}

	if !fi.Mode().IsDir() {
		return nil, fmt.Errorf("%q: %w", rootPath, errNotDirectory)
	}

	return &Root{path: rootPath}, nil
}

// Name identifies the storage in metrics and logs
func (localFs *VFS) Name() string {
	return "local"
}
