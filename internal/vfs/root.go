package vfs

import (
	"context"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/pages-cgi/metrics"
)

// Root is a directory tree that no operation is allowed to leave. Names are
// slash separated and interpreted relative to the root.
type Root interface {
	// Path returns the absolute, symlink-free location of the root
	Path() string
	Lstat(ctx context.Context, name string) (os.FileInfo, error)
	// EvalSymlinks returns the canonical name of name relative to the root,
	// "." for the root itself
	EvalSymlinks(ctx context.Context, name string) (string, error)
	Open(ctx context.Context, name string) (File, error)
}

type instrumentedRoot struct {
	root Root
	name string
}

// observe counts the operation and traces it with its outcome
func (i *instrumentedRoot) observe(operation, name string, err error, fields log.Fields) {
	metrics.VFSOperations.WithLabelValues(i.name, operation, strconv.FormatBool(err == nil)).Inc()

	log.WithFields(fields).
		WithField("vfs", i.name).
		WithField("root", i.root.Path()).
		WithField("name", name).
		WithError(err).
		Tracef("vfs %s", operation)
}

func (i *instrumentedRoot) Path() string {
	return i.root.Path()
}

func (i *instrumentedRoot) Lstat(ctx context.Context, name string) (os.FileInfo, error) {
	fi, err := i.root.Lstat(ctx, name)
	i.observe("Lstat", name, err, nil)

	return fi, err
}

func (i *instrumentedRoot) EvalSymlinks(ctx context.Context, name string) (string, error) {
	target, err := i.root.EvalSymlinks(ctx, name)
	i.observe("EvalSymlinks", name, err, log.Fields{"target": target})

	return target, err
}

func (i *instrumentedRoot) Open(ctx context.Context, name string) (File, error) {
	f, err := i.root.Open(ctx, name)
	i.observe("Open", name, err, nil)

	return f, err
}
