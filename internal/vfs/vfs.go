package vfs

import (
	"context"
)

// VFS opens sandboxed roots on some storage.
type VFS interface {
	Root(ctx context.Context, path string) (Root, error)
	Name() string
}

// Instrumented wraps fs so that every root it returns counts its operations
func Instrumented(fs VFS) VFS {
	return &instrumentedVFS{fs: fs}
}

type instrumentedVFS struct {
	fs VFS
}

func (i *instrumentedVFS) Root(ctx context.Context, path string) (Root, error) {
	root, err := i.fs.Root(ctx, path)
	if err != nil {
		return nil, err
	}

	return &instrumentedRoot{root: root, name: i.fs.Name()}, nil
}

func (i *instrumentedVFS) Name() string {
	return i.fs.Name()
}
